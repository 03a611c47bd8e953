package checks

import (
	"context"

	"commitgate/internal/source"
)

// Check is one executable gate check, built from a gatespec.Check.
type Check interface {
	ID() string
	Kind() string
	Describe() string

	// Run evaluates the check against its selected file subset.
	//
	// A content failure (forbidden pattern present, external command exiting
	// non-zero) is reported through the Result status, never through the
	// error. A non-nil error means an infrastructure problem (an unreadable
	// selected file) and aborts the whole run.
	Run(ctx context.Context, files []string) (Result, error)
}

// Deps carries the shared collaborators a builder may need.
type Deps struct {
	// Source reads candidate file content. Shared across checks so
	// overlapping file subsets are read once.
	Source *source.Loader

	// Root is the repository root the run operates in. External commands
	// run with it as their working directory so relative candidate paths
	// resolve.
	Root string
}
