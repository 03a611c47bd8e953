package output

import (
	"fmt"
	"io"
	"sync"

	"commitgate/internal/checks"
)

// EmitSink writes an additional structured stream alongside the console.
//
// Formats:
//   - json: aggregates check results and writes a single JSON array on Close
//   - ndjson: streams Event values (one JSON object per line)
type EmitSink struct {
	writer  io.Writer
	format  string // "json" | "ndjson"
	mu      sync.Mutex
	results []checks.Result
}

func NewEmitSink(w io.Writer, format string) (*EmitSink, error) {
	if w == nil {
		return nil, fmt.Errorf("emit sink writer must not be nil")
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported emit format: %s", format)
	}
	return &EmitSink{writer: w, format: format}, nil
}

func (s *EmitSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "ndjson" {
		return streamEvent(s.writer, v)
	}
	// JSON aggregate mode buffers results and ignores lifecycle events.
	if r, ok := v.(checks.Result); ok {
		s.results = append(s.results, r)
	}
	return nil
}

func (s *EmitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		return writeAggregate(s.writer, s.results)
	}
	return nil
}
