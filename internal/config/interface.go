package config

import "context"

// Loader is the interface for a format-specific configuration loader. Each
// path may be a single file or a directory that is searched recursively.
type Loader interface {
	// LoadDatasets returns every dataset definition found, in file order.
	LoadDatasets(ctx context.Context, paths ...string) ([]*Dataset, error)

	// LoadPlan merges all plan definitions found into a single Plan.
	LoadPlan(ctx context.Context, paths ...string) (*Plan, error)
}
