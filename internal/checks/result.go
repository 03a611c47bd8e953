package checks

type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusSkipped Status = "SKIPPED"
	StatusError   Status = "ERROR"
)

// Match is one matching line found by a pattern check.
type Match struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Result is the outcome of one check over its selected file subset.
type Result struct {
	CheckID string `json:"check_id"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	// Matches holds the lines that determined the verdict, in file-then-line
	// order.
	Matches []Match `json:"matches,omitempty"`
	// Allowed holds matches tolerated by the check's allow globs. They are
	// reported for visibility but do not fail the gate.
	Allowed []Match `json:"allowed,omitempty"`
	// Output is captured combined output of an exec-kind check, trimmed.
	Output string `json:"output,omitempty"`
}
