package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"commitgate/internal/checks"
)

func TestNewEmitSinkValidation(t *testing.T) {
	if _, err := NewEmitSink(nil, "json"); err == nil {
		t.Fatal("expected error for nil writer")
	}
	if _, err := NewEmitSink(&bytes.Buffer{}, "text"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestEmitSinkNDJSON(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewEmitSink(&buf, "ndjson")
	if err != nil {
		t.Fatal(err)
	}

	if err := sink.Write(Event{Type: "run.started", Checks: 1}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Write(checks.FailResult("b", "match")); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	var e map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &e); err != nil {
		t.Fatal(err)
	}
	if e["type"] != "check.result" {
		t.Fatalf("expected check.result event, got %v", e["type"])
	}
}

func TestEmitSinkJSONAggregate(t *testing.T) {
	var buf bytes.Buffer
	sink, err := NewEmitSink(&buf, "json")
	if err != nil {
		t.Fatal(err)
	}

	if err := sink.Write(checks.PassResult("a")); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatal("json mode must buffer until Close")
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	var results []checks.Result
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(results) != 1 || results[0].CheckID != "a" {
		t.Fatalf("unexpected results: %+v", results)
	}
}
