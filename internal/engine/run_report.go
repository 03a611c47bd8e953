package engine

import "commitgate/internal/checks"

// RunReport is the aggregated outcome of one gate run.
type RunReport struct {
	Results []checks.Result
	Counts  Counts
}

type Counts struct {
	Passed  int
	Failed  int
	Errored int
	Skipped int
}

func (c Counts) Total() int {
	return c.Passed + c.Failed + c.Errored + c.Skipped
}

// OverallPassed is false iff at least one check failed or errored. Skipped
// checks pass vacuously.
func (r *RunReport) OverallPassed() bool {
	return r.Counts.Failed == 0 && r.Counts.Errored == 0
}

func summarize(results []checks.Result) *RunReport {
	report := &RunReport{Results: results}
	for _, res := range results {
		switch res.Status {
		case checks.StatusPass:
			report.Counts.Passed++
		case checks.StatusFail:
			report.Counts.Failed++
		case checks.StatusError:
			report.Counts.Errored++
		case checks.StatusSkipped:
			report.Counts.Skipped++
		}
	}
	return report
}
