package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"commitgate/internal/checks"
)

var statusColors = map[checks.Status]*color.Color{
	checks.StatusPass:    color.New(color.FgGreen),
	checks.StatusFail:    color.New(color.FgRed, color.Bold),
	checks.StatusError:   color.New(color.FgMagenta, color.Bold),
	checks.StatusSkipped: color.New(color.FgYellow),
}

// ConsoleSink is the human-facing sink. Text mode prints one line per check
// plus the matching lines of failing pattern checks and a final summary;
// json aggregates results; ndjson streams lifecycle events.
type ConsoleSink struct {
	writer          io.Writer
	format          string // "text", "json", "ndjson"
	mu              sync.Mutex
	results         []checks.Result
	allowedStatuses map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filterStatuses []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterStatuses) > 0 {
		s.allowedStatuses = make(map[string]bool)
		for _, st := range filterStatuses {
			s.allowedStatuses[strings.ToUpper(st)] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	if len(s.allowedStatuses) > 0 {
		if r, ok := v.(checks.Result); ok {
			if !s.allowedStatuses[string(r.Status)] {
				return nil
			}
		}
	}

	switch s.format {
	case "json":
		r, ok := v.(checks.Result)
		if !ok {
			// Ignore lifecycle events in JSON aggregate mode.
			return nil
		}
		s.results = append(s.results, r)
		return nil
	case "ndjson":
		return streamEvent(s.writer, v)
	case "text":
		switch t := v.(type) {
		case checks.Result:
			if err := s.writeTextResult(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case Event:
			if t.Type != "run.finished" {
				return nil
			}
			if err := s.writeTextSummary(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeTextResult(r checks.Result) error {
	status := string(r.Status)
	if c, ok := statusColors[r.Status]; ok {
		status = c.Sprint(status)
	}
	if _, err := fmt.Fprintf(s.writer, "[%s] %s", status, r.CheckID); err != nil {
		return err
	}
	if r.Message != "" {
		if _, err := fmt.Fprintf(s.writer, " - %s", r.Message); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(s.writer); err != nil {
		return err
	}

	// Matching lines are the evidence the committer needs to act on.
	if r.Status == checks.StatusFail {
		for _, m := range r.Matches {
			if _, err := fmt.Fprintf(s.writer, "  %s:%d: %s\n", m.Path, m.Line, m.Text); err != nil {
				return err
			}
		}
		if r.Output != "" {
			for _, line := range strings.Split(r.Output, "\n") {
				if _, err := fmt.Fprintf(s.writer, "  %s\n", line); err != nil {
					return err
				}
			}
		}
	}
	for _, m := range r.Allowed {
		if _, err := fmt.Fprintf(s.writer, "  (allowed) %s:%d: %s\n", m.Path, m.Line, m.Text); err != nil {
			return err
		}
	}
	return nil
}

func (s *ConsoleSink) writeTextSummary(e Event) error {
	verdict := statusColors[checks.StatusPass].Sprint("gate passed")
	if e.ExitCode != 0 {
		verdict = statusColors[checks.StatusFail].Sprint("gate failed")
	}
	_, err := fmt.Fprintf(s.writer, "%d check(s): %d passed, %d failed, %d errored, %d skipped - %s\n",
		e.Checks, e.Passed, e.Failed, e.Errored, e.Skipped, verdict)
	return err
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		return writeAggregate(s.writer, s.results)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}

// streamEvent encodes one NDJSON line: Events as-is, check results wrapped in
// a check.result Event. Anything else is silently dropped.
func streamEvent(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	var err error
	switch t := v.(type) {
	case Event:
		err = encoder.Encode(t)
	case checks.Result:
		err = encoder.Encode(eventFromResult(t))
	default:
		return nil
	}
	if err != nil {
		return err
	}
	return flushIfPossible(w)
}

// writeAggregate writes the collected results of a JSON-mode sink as one
// indented array.
func writeAggregate(w io.Writer, results []checks.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return err
	}
	return flushIfPossible(w)
}

type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	f, ok := w.(flusher)
	if !ok {
		return nil
	}
	return f.Flush()
}
