package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"chefagent"
	"chefagent/catalog/storage"
	"chefagent/engine"
	"chefagent/executor"
	"chefagent/oracle"
)

func testActivities(o chefagent.Oracle) *Activities {
	return NewActivities(ActivitiesOptions{
		Oracle:           o,
		ToolSource:       storage.NewStaticSource([]byte(`["Skillet","Oven","Chopping Board"]`)),
		IngredientSource: storage.NewStaticSource([]byte(`["Chicken Breast","Salt","Pepper"]`)),
		OracleTimeout:    time.Second,
		Delay:            executor.DelayBounds{Min: time.Millisecond, Max: time.Millisecond},
	})
}

func TestCookingRunWithoutOracle(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(testActivities(oracle.NewUnavailable()))

	env.ExecuteWorkflow(CookingRun, chefagent.RunInput{Recipe: "chicken parmesan"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var summary string
	require.NoError(t, env.GetWorkflowResult(&summary))
	assert.Equal(t, "Cooked chicken parmesan using Chopping Board, Skillet, Oven", summary)

	val, err := env.QueryWorkflow(QueryState)
	require.NoError(t, err)

	var state engine.Snapshot
	require.NoError(t, val.Get(&state))
	assert.True(t, state.IsComplete)
	assert.Equal(t, engine.StatusCompleted, state.Status)
	assert.Equal(t, engine.PhaseNone, state.StepPhase)
	require.Len(t, state.Plan, 4)
	assert.Equal(t, state.Plan, state.CompletedSteps)
	assert.Equal(t, len(state.Plan), state.CurrentStepIndex)
	assert.Len(t, state.StepTools, len(state.CompletedSteps))
	assert.Len(t, state.StepIngredients, len(state.CompletedSteps))
	assert.Equal(t, []string{"Chopping Board", "Skillet", "Oven"}, state.UsedTools)
	assert.Equal(t, []string{"Chicken Breast", "Salt"}, state.UsedIngredients)
}

func TestCookingRunWithScriptedOracle(t *testing.T) {
	script := oracle.NewScript([]string{
		"1. Pan-fry the chicken\n2. Bake with cheese on top",
		"Skillet",
		"Chicken Breast, Salt",
		"Oven",
		"Pepper",
	}, nil)

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(testActivities(script))

	env.ExecuteWorkflow(CookingRun, chefagent.RunInput{Recipe: "chicken parmesan"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var summary string
	require.NoError(t, env.GetWorkflowResult(&summary))
	assert.Equal(t, "Cooked chicken parmesan using Skillet, Oven", summary)
}

func TestCookingRunCatalogFailure(t *testing.T) {
	a := NewActivities(ActivitiesOptions{
		Oracle:           oracle.NewUnavailable(),
		ToolSource:       storage.NewStaticSourceWithError(),
		IngredientSource: storage.NewStaticSource([]byte(`["Salt"]`)),
		Delay:            executor.DelayBounds{Min: time.Millisecond, Max: time.Millisecond},
	})

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(a)

	env.ExecuteWorkflow(CookingRun, chefagent.RunInput{Recipe: "chicken parmesan"})

	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
}
