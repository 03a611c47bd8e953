package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// run behavior, keep the CLI flags in internal/cli/run.go in sync.
	Targeting Targeting
	Checks    Checks
	Output    Output
	Runtime   Runtime
}

type Targeting struct {
	// Spec is the path to the gate spec file (see --spec). Empty means the
	// default .commitgate.yaml in the repo root.
	Spec string

	// Root is the repository root the run operates in (see --root).
	Root string

	// Files are explicit candidate files, as passed by the host hook
	// mechanism. When set, git discovery is skipped.
	Files []string

	// Staged selects the files staged in the git index (see --staged).
	// This is the default when no files are given.
	Staged bool

	// All selects every file tracked at HEAD (see --all).
	All bool

	// Include/Exclude narrow the candidate set before per-check selectors
	// apply (doublestar globs; repeatable; comma-separated accepted).
	Include []string
	Exclude []string

	// DryRun resolves checks and candidates and prints the plan without
	// running anything (see --dry-run).
	DryRun bool
}

type Checks struct {
	// Selector picks which checks to run as a comma-separated id list.
	// Empty means every check in the spec (see --checks).
	Selector string
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink (see
	// --console-format). Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterStatus filters console output by result status (see
	// --console-filter-status). Allowed values: PASS, FAIL, ERROR, SKIPPED.
	ConsoleFilterStatus []string

	// Report writes a Markdown report to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out
	// file extension.
	OutFormat string

	// Emit writes additional structured event streams to stdout (see
	// --emit). Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Concurrency bounds the check worker pool (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// Timeout bounds the whole run (see --timeout). Must be > 0.
	Timeout time.Duration

	// FailFast cancels remaining checks after the first failure (see
	// --fail-fast).
	FailFast bool

	// Verbose enables debug diagnostics.
	Verbose bool
}

func New() *Config {
	return &Config{
		Targeting: Targeting{
			Root: ".",
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Concurrency: runtime.NumCPU(),
			Timeout:     5 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Targeting.Include = splitCommaList(c.Targeting.Include)
	c.Targeting.Exclude = splitCommaList(c.Targeting.Exclude)

	if c.Targeting.Staged && c.Targeting.All {
		return errors.New("--staged and --all are mutually exclusive")
	}
	if len(c.Targeting.Files) > 0 && (c.Targeting.Staged || c.Targeting.All) {
		return errors.New("explicit file arguments cannot be combined with --staged or --all")
	}
	if c.Targeting.Root == "" {
		c.Targeting.Root = "."
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		c.Output.ConsoleFormat = "text"
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for i, st := range c.Output.ConsoleFilterStatus {
		v := strings.ToUpper(strings.TrimSpace(st))
		switch v {
		case "PASS", "FAIL", "ERROR", "SKIPPED":
			c.Output.ConsoleFilterStatus[i] = v
		default:
			return fmt.Errorf("unsupported --console-filter-status value: %s (must be one of: PASS, FAIL, ERROR, SKIPPED)", st)
		}
	}

	for _, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", emit)
		}
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	return nil
}

// splitCommaList allows repeated flags and comma-separated values to mix.
func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func normalizeEnumValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
