package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"commitgate/internal/checks"
	"commitgate/internal/gatespec"
)

// fakeCheck is a scriptable check for scheduler tests.
type fakeCheck struct {
	id     string
	result checks.Result
	err    error
	delay  time.Duration
	runs   *atomic.Int32
}

func (f *fakeCheck) ID() string       { return f.id }
func (f *fakeCheck) Kind() string     { return "fake" }
func (f *fakeCheck) Describe() string { return "" }

func (f *fakeCheck) Run(ctx context.Context, files []string) (checks.Result, error) {
	if f.runs != nil {
		f.runs.Add(1)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return checks.Result{}, ctx.Err()
		}
	}
	if f.err != nil {
		return checks.Result{}, f.err
	}
	return f.result, nil
}

func planOf(fakes ...*fakeCheck) *RunPlan {
	plan := &RunPlan{}
	for _, f := range fakes {
		plan.Entries = append(plan.Entries, PlanEntry{
			Spec:  gatespec.Check{ID: f.id},
			Check: f,
		})
	}
	return plan
}

func TestNewSchedulerValidatesConcurrency(t *testing.T) {
	if _, err := NewScheduler(0, false); err == nil {
		t.Fatal("expected error for concurrency 0")
	}
	if _, err := NewScheduler(-1, false); err == nil {
		t.Fatal("expected error for negative concurrency")
	}
	if _, err := NewScheduler(4, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecuteReturnsResultsInPlanOrder(t *testing.T) {
	// The first check is slow; its result must still land in slot 0.
	a := &fakeCheck{id: "a", result: checks.FailResult("a", "nope"), delay: 30 * time.Millisecond}
	b := &fakeCheck{id: "b", result: checks.PassResult("b")}
	c := &fakeCheck{id: "c", result: checks.PassResult("c")}

	s, err := NewScheduler(3, false)
	if err != nil {
		t.Fatal(err)
	}
	results, err := s.Execute(context.Background(), planOf(a, b, c))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	wantIDs := []string{"a", "b", "c"}
	if len(results) != len(wantIDs) {
		t.Fatalf("expected %d results, got %d", len(wantIDs), len(results))
	}
	for i, id := range wantIDs {
		if results[i].CheckID != id {
			t.Fatalf("result %d: expected check %s, got %s", i, id, results[i].CheckID)
		}
	}
	if results[0].Status != checks.StatusFail {
		t.Fatalf("expected a to fail, got %s", results[0].Status)
	}
}

func TestExecuteNeverShortCircuitsOnFailure(t *testing.T) {
	runs := &atomic.Int32{}
	fakes := []*fakeCheck{
		{id: "fail-1", result: checks.FailResult("fail-1", "x"), runs: runs},
		{id: "fail-2", result: checks.FailResult("fail-2", "y"), runs: runs},
		{id: "pass", result: checks.PassResult("pass"), runs: runs},
	}

	s, err := NewScheduler(1, false)
	if err != nil {
		t.Fatal(err)
	}
	results, err := s.Execute(context.Background(), planOf(fakes...))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got := runs.Load(); got != 3 {
		t.Fatalf("expected all 3 checks to run, got %d", got)
	}
	if results[2].Status != checks.StatusPass {
		t.Fatalf("expected later check to still run and pass, got %s", results[2].Status)
	}
}

func TestExecuteFatalErrorAbortsRun(t *testing.T) {
	boom := errors.New("read broken.txt: permission denied")
	fakes := []*fakeCheck{
		{id: "ok", result: checks.PassResult("ok")},
		{id: "broken", err: boom},
	}

	s, err := NewScheduler(2, false)
	if err != nil {
		t.Fatal(err)
	}
	results, err := s.Execute(context.Background(), planOf(fakes...))
	if err == nil {
		t.Fatal("expected fatal error")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fatal error, got: %v", err)
	}
	if results != nil {
		t.Fatal("results must be discarded on fatal error")
	}
}

func TestExecuteFailFast(t *testing.T) {
	runs := &atomic.Int32{}
	fakes := []*fakeCheck{
		{id: "fail", result: checks.FailResult("fail", "x"), runs: runs},
		{id: "slow", result: checks.PassResult("slow"), delay: 50 * time.Millisecond, runs: runs},
		{id: "later", result: checks.PassResult("later"), runs: runs},
	}

	s, err := NewScheduler(1, true)
	if err != nil {
		t.Fatal(err)
	}
	results, err := s.Execute(context.Background(), planOf(fakes...))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if results[0].Status != checks.StatusFail {
		t.Fatalf("expected first check to fail, got %s", results[0].Status)
	}
	for _, res := range results[1:] {
		if res.Status != checks.StatusSkipped && res.Status != checks.StatusPass {
			t.Fatalf("unexpected status after fail-fast: %s", res.Status)
		}
	}
	if got := runs.Load(); got >= 3 {
		// With concurrency 1 and a fail-fast cancel, at least the last
		// check should have been skipped.
		t.Fatalf("expected fewer than 3 checks to run, got %d", got)
	}
}

func TestExecuteCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewScheduler(2, false)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Execute(ctx, planOf(&fakeCheck{id: "a", result: checks.PassResult("a")}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func TestExecuteNilInputs(t *testing.T) {
	s, err := NewScheduler(1, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Execute(nil, &RunPlan{}); err == nil { //nolint:staticcheck // exercising the nil guard
		t.Fatal("expected error for nil context")
	}
	if _, err := s.Execute(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil plan")
	}
}
