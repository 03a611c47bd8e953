package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"commitgate/internal/checks"
)

// Scheduler runs a plan's checks on a bounded worker pool.
//
// Checks share no mutable state, so each worker writes its result into a
// distinct slot of a preallocated slice and the merged slice is returned once
// every worker finishes. That keeps declared order in the report without a
// shared accumulator or locking around it.
type Scheduler struct {
	concurrency int
	failFast    bool
}

func NewScheduler(concurrency int, failFast bool) (*Scheduler, error) {
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	return &Scheduler{concurrency: concurrency, failFast: failFast}, nil
}

// Execute runs every plan entry and returns one result per entry, in plan
// order. A non-nil error means the run is no longer trustworthy (an
// infrastructure failure or cancellation) and the results must be discarded.
func (s *Scheduler) Execute(ctx context.Context, plan *RunPlan) ([]checks.Result, error) {
	if ctx == nil {
		return nil, errors.New("context is nil")
	}
	if plan == nil {
		return nil, errors.New("run plan is nil")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]checks.Result, len(plan.Entries))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	// Fatal errors race only for "first one wins"; the buffered channel
	// keeps exactly one.
	fatalCh := make(chan error, 1)
	reportFatal := func(err error) {
		select {
		case fatalCh <- err:
		default:
		}
		cancel()
	}

scheduleLoop:
	for i := range plan.Entries {
		select {
		case sem <- struct{}{}:
		case <-runCtx.Done():
			break scheduleLoop
		}

		wg.Add(1)
		go func(slot int, entry PlanEntry) {
			defer wg.Done()
			defer func() { <-sem }()

			if runCtx.Err() != nil {
				results[slot] = checks.SkippedResult(entry.Spec.ID, "not run")
				return
			}

			res, err := entry.Check.Run(runCtx, entry.Files)
			if err != nil {
				if runCtx.Err() != nil {
					results[slot] = checks.SkippedResult(entry.Spec.ID, "not run")
					return
				}
				reportFatal(fmt.Errorf("check %q: %w", entry.Spec.ID, err))
				return
			}

			results[slot] = res
			if s.failFast && (res.Status == checks.StatusFail || res.Status == checks.StatusError) {
				cancel()
			}
		}(i, plan.Entries[i])
	}

	wg.Wait()

	select {
	case err := <-fatalCh:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Entries never scheduled because of a fail-fast cancel still need a
	// placeholder result.
	for i := range results {
		if results[i].CheckID == "" {
			results[i] = checks.SkippedResult(plan.Entries[i].Spec.ID, "not run")
		}
	}
	return results, nil
}
