package observer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chefagent/engine"
)

// scriptedQuery replays a fixed snapshot sequence, holding the last snapshot
// once exhausted. Error slots simulate transient query failures.
type scriptedQuery struct {
	snapshots []engine.Snapshot
	errs      []error
	calls     int
}

func (q *scriptedQuery) query(ctx context.Context) (engine.Snapshot, error) {
	i := q.calls
	q.calls++

	if i < len(q.errs) && q.errs[i] != nil {
		return engine.Snapshot{}, q.errs[i]
	}
	if i >= len(q.snapshots) {
		i = len(q.snapshots) - 1
	}
	return q.snapshots[i].Clone(), nil
}

func completedSnapshot() engine.Snapshot {
	s := engine.NewSnapshot("toast", "")
	s.Plan = []string{"Whisk eggs with milk and spices"}
	s.CompletedSteps = []string{s.Plan[0]}
	s.StepTools = []string{"Mixing Bowl"}
	s.StepIngredients = [][]string{{"Eggs", "Milk"}}
	s.UsedTools = []string{"Mixing Bowl"}
	s.UsedIngredients = []string{"Eggs", "Milk"}
	s.CurrentStepIndex = 1
	s.IsComplete = true
	s.Status = engine.StatusCompleted
	return s
}

func TestPollerStopsOnCompletion(t *testing.T) {
	executing := engine.NewSnapshot("toast", "")
	executing.Plan = []string{"Whisk eggs with milk and spices"}
	executing.Status = engine.StatusExecuting

	q := &scriptedQuery{snapshots: []engine.Snapshot{executing, completedSnapshot()}}

	var got []Event
	p := NewPoller(time.Millisecond)
	final, err := p.Poll(context.Background(), nil, q.query, func(e Event) { got = append(got, e) })
	require.NoError(t, err)

	assert.True(t, final.IsComplete)
	assert.Equal(t, []EventKind{EventPlanReady, EventStepCompleted, EventRunCompleted}, kinds(got))
}

// A fatally failed run never reports IsComplete while its snapshots remain
// queryable, so the done channel is the only way out of the loop. The poller
// must return promptly after done closes, draining the final transitions on
// the way.
func TestPollerStopsWhenRunFails(t *testing.T) {
	executing := engine.NewSnapshot("chicken parmesan", "")
	executing.Plan = []string{"Pound and bread the chicken", "Pan-fry until golden brown"}
	executing.Status = engine.StatusExecuting
	executing.CurrentStep = executing.Plan[0]
	executing.StepPhase = engine.PhaseSelectingTool

	failed := executing.Clone()
	failed.CompletedSteps = []string{executing.Plan[0]}
	failed.StepTools = []string{"Chopping Board"}
	failed.StepIngredients = [][]string{{"Chicken Breast"}}
	failed.CurrentStep = executing.Plan[1]
	failed.CurrentStepIndex = 1
	failed.StepPhase = engine.PhaseUsingTool

	done := make(chan struct{})
	query := func(ctx context.Context) (engine.Snapshot, error) {
		select {
		case <-done:
			return failed.Clone(), nil
		default:
			return executing.Clone(), nil
		}
	}
	time.AfterFunc(15*time.Millisecond, func() { close(done) })

	var got []Event
	started := time.Now()
	p := NewPoller(time.Millisecond)
	final, err := p.Poll(context.Background(), done, query, func(e Event) { got = append(got, e) })
	require.NoError(t, err)

	assert.Less(t, time.Since(started), time.Second, "poll must end soon after done closes")
	assert.False(t, final.IsComplete)
	// The drain pass after done closed still surfaced the last completed step.
	assert.Contains(t, kinds(got), EventStepCompleted)
	assert.NotContains(t, kinds(got), EventRunCompleted)
}

func TestPollerRetriesTransientErrors(t *testing.T) {
	q := &scriptedQuery{
		snapshots: []engine.Snapshot{{}, completedSnapshot()},
		errs:      []error{nil, errors.New("query timed out"), errors.New("query timed out")},
	}

	var got []Event
	p := NewPoller(time.Millisecond)
	final, err := p.Poll(context.Background(), nil, q.query, func(e Event) { got = append(got, e) })
	require.NoError(t, err)

	assert.True(t, final.IsComplete)
	assert.GreaterOrEqual(t, q.calls, 4, "failed polls are retried, not fatal")
	assert.Contains(t, kinds(got), EventRunCompleted)
}

func TestPollerHonorsContext(t *testing.T) {
	never := func(ctx context.Context) (engine.Snapshot, error) {
		return engine.NewSnapshot("toast", ""), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := NewPoller(time.Millisecond)
	_, err := p.Poll(ctx, nil, never, func(Event) {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
