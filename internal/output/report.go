package output

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"commitgate/internal/checks"
)

// ReportSink collects the whole run and writes a Markdown summary on Close.
type ReportSink struct {
	path         string
	file         *os.File
	mu           sync.Mutex
	results      []checks.Result
	files        int
	exitCode     int
	haveExitCode bool
	started      time.Time
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path:    path,
		file:    f,
		started: time.Now(),
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case checks.Result:
		s.results = append(s.results, t)
	case Event:
		if t.Type == "run.started" {
			s.files = t.Files
		}
		if t.Type == "run.finished" {
			s.exitCode = t.ExitCode
			s.haveExitCode = true
		}
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	s.writeReport(&b)

	_, writeErr := s.file.WriteString(b.String())
	closeErr := s.file.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

func (s *ReportSink) writeReport(b *strings.Builder) {
	var pass, fail, errored, skipped int
	for _, r := range s.results {
		switch r.Status {
		case checks.StatusPass:
			pass++
		case checks.StatusFail:
			fail++
		case checks.StatusError:
			errored++
		case checks.StatusSkipped:
			skipped++
		}
	}

	verdict := "PASSED"
	if s.haveExitCode && s.exitCode != 0 {
		verdict = "FAILED"
	}

	fmt.Fprintf(b, "# Commit Gate Report\n\n")
	fmt.Fprintf(b, "Generated: %s\n\n", s.started.Format(time.RFC3339))
	fmt.Fprintf(b, "**Verdict: %s**\n\n", verdict)

	fmt.Fprintf(b, "| Checks | Passed | Failed | Errored | Skipped | Files |\n")
	fmt.Fprintf(b, "|-------:|-------:|-------:|--------:|--------:|------:|\n")
	fmt.Fprintf(b, "| %d | %d | %d | %d | %d | %d |\n\n",
		len(s.results), pass, fail, errored, skipped, s.files)

	if fail == 0 && errored == 0 {
		return
	}

	fmt.Fprintf(b, "## Violations\n\n")
	for _, r := range s.results {
		if r.Status != checks.StatusFail && r.Status != checks.StatusError {
			continue
		}
		fmt.Fprintf(b, "### %s (%s)\n\n", r.CheckID, r.Status)
		if r.Message != "" {
			fmt.Fprintf(b, "%s\n\n", r.Message)
		}
		for _, m := range r.Matches {
			fmt.Fprintf(b, "- `%s:%d`: `%s`\n", m.Path, m.Line, mdEscape(m.Text))
		}
		if len(r.Matches) > 0 {
			fmt.Fprintln(b)
		}
		if r.Output != "" {
			fmt.Fprintf(b, "```\n%s\n```\n\n", r.Output)
		}
	}
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
