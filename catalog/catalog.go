// Package catalog loads and validates the immutable tool and ingredient
// catalogs a run is scoped to. Name equality is the only identity relation:
// every decision made downstream is validated against these lists.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"chefagent/catalog/storage"
)

// ErrUnavailable reports that a catalog's backing resource is missing or
// malformed. There is no fallback: without a catalog nothing downstream can
// be validated, so callers treat this as fatal for the run.
var ErrUnavailable = errors.New("catalog unavailable")

// Catalog is an ordered list of unique names with O(1) membership checks.
type Catalog struct {
	items []string
	index map[string]struct{}
}

// New builds a catalog from an ordered list of names. Duplicate or empty
// entries are rejected.
func New(items []string) (*Catalog, error) {
	index := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item == "" {
			return nil, fmt.Errorf("catalog entry must not be empty")
		}
		if _, dup := index[item]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", item)
		}
		index[item] = struct{}{}
	}
	return &Catalog{items: append([]string(nil), items...), index: index}, nil
}

// Items returns a copy of the catalog entries in their original order.
func (c *Catalog) Items() []string {
	return append([]string(nil), c.items...)
}

func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *Catalog) Len() int { return len(c.items) }

// Intersect filters names down to exact catalog members, preserving input
// order. Entries outside the catalog are silently dropped.
func (c *Catalog) Intersect(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if c.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// fileSchema describes a catalog file: a non-empty JSON array of unique,
// non-empty strings.
func fileSchema() *jsonschema.Schema {
	minItems := 1
	minLength := 1
	return &jsonschema.Schema{
		Type:        "array",
		MinItems:    &minItems,
		UniqueItems: true,
		Items: &jsonschema.Schema{
			Type:      "string",
			MinLength: &minLength,
		},
	}
}

// Load reads one catalog from its source and validates it against the file
// schema. Any failure maps to ErrUnavailable.
func Load(ctx context.Context, src storage.Source) (*Catalog, error) {
	raw, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read catalog: %v", ErrUnavailable, err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: parse catalog: %v", ErrUnavailable, err)
	}

	resolved, err := fileSchema().Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog schema: %w", err)
	}
	if err := resolved.Validate(decoded); err != nil {
		return nil, fmt.Errorf("%w: invalid catalog: %v", ErrUnavailable, err)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", ErrUnavailable, err)
	}

	cat, err := New(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	slog.Info("CATALOG: Loaded", "entries", cat.Len())
	return cat, nil
}
