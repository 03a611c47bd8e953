package engine

import (
	"fmt"

	"github.com/charmbracelet/log"

	"commitgate/internal/checks"
	"commitgate/internal/fileset"
	"commitgate/internal/gatespec"
)

// PlanEntry pairs a built check with the file subset it applies to.
type PlanEntry struct {
	Spec  gatespec.Check
	Check checks.Check
	Files []string
}

// RunPlan is the fully resolved work list for one gate run: every selected
// check in declared order, each with its selected files. Checks are mutually
// independent; order matters only for report readability.
type RunPlan struct {
	Entries []PlanEntry
	// Candidates is the full candidate file set the per-check subsets were
	// drawn from.
	Candidates []string
}

// BuildPlan constructs checks from their declarations and computes each
// check's file subset. Build failures are spec problems and abort before
// anything runs.
func BuildPlan(specs []gatespec.Check, candidates []string, deps checks.Deps) (*RunPlan, error) {
	plan := &RunPlan{
		Entries:    make([]PlanEntry, 0, len(specs)),
		Candidates: candidates,
	}

	for _, spec := range specs {
		c, err := checks.Build(spec, deps)
		if err != nil {
			return nil, err
		}

		sel, err := fileset.NewSelector(spec.Include, spec.Exclude)
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", spec.ID, err)
		}
		files := sel.Select(candidates)
		log.Debug("planned check", "check", spec.ID, "kind", spec.Kind, "files", len(files))

		plan.Entries = append(plan.Entries, PlanEntry{Spec: spec, Check: c, Files: files})
	}

	return plan, nil
}
