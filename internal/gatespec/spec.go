package gatespec

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Check kinds. The set is closed: a check either searches file content for a
// pattern or delegates to an external executable.
const (
	KindPattern = "pattern"
	KindExec    = "exec"
)

// Check is one declared gate check. The zero kind means KindPattern.
type Check struct {
	ID          string `yaml:"id"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`

	// Include/Exclude scope the check to a subset of the candidate files.
	// Patterns use doublestar globs over repo-relative paths; an empty
	// Include list selects every candidate file.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// Pattern fields (kind: pattern).
	Pattern    string `yaml:"pattern"`
	Regex      bool   `yaml:"regex"`
	IgnoreCase bool   `yaml:"ignore_case"`
	Negate     bool   `yaml:"negate"`

	// Allow lists glob patterns for files whose matches are tolerated: the
	// check still reports them, but they do not fail the gate.
	Allow []string `yaml:"allow"`

	// Exec fields (kind: exec).
	Command []string `yaml:"command"`
	Timeout Duration `yaml:"timeout"`
}

// Spec is a full gate spec: the ordered list of checks for one run.
type Spec struct {
	Checks []Check `yaml:"checks"`
}

// Duration wraps time.Duration so specs can say "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("timeout must be a duration string like \"30s\": %w", err)
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	*d = Duration(td)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// InvalidSpecError reports a malformed check declaration. It is fatal: the
// run aborts before any check executes.
type InvalidSpecError struct {
	CheckID string
	Reason  string
}

func (e *InvalidSpecError) Error() string {
	if e.CheckID == "" {
		return fmt.Sprintf("invalid gate spec: %s", e.Reason)
	}
	return fmt.Sprintf("invalid check %q: %s", e.CheckID, e.Reason)
}

func invalid(id, format string, args ...any) error {
	return &InvalidSpecError{CheckID: id, Reason: fmt.Sprintf(format, args...)}
}

// Parse decodes a YAML gate spec and validates it. The returned spec is
// immutable for the run.
func Parse(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &InvalidSpecError{Reason: fmt.Sprintf("parse YAML: %v", err)}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Spec) validate() error {
	if len(s.Checks) == 0 {
		return invalid("", "spec declares no checks")
	}

	seen := make(map[string]struct{}, len(s.Checks))
	for i := range s.Checks {
		c := &s.Checks[i]
		if strings.TrimSpace(c.ID) == "" {
			return invalid("", "check #%d has no id", i+1)
		}
		if _, dup := seen[c.ID]; dup {
			return invalid(c.ID, "duplicate check id")
		}
		seen[c.ID] = struct{}{}

		if c.Kind == "" {
			c.Kind = KindPattern
		}

		for _, globs := range [][]string{c.Include, c.Exclude, c.Allow} {
			for _, g := range globs {
				if !doublestar.ValidatePattern(g) {
					return invalid(c.ID, "invalid glob pattern %q", g)
				}
			}
		}

		switch c.Kind {
		case KindPattern:
			if c.Pattern == "" {
				return invalid(c.ID, "pattern is empty")
			}
			if len(c.Command) > 0 {
				return invalid(c.ID, "command is only valid for kind %q", KindExec)
			}
			if c.Regex {
				if _, err := regexp.Compile(c.Pattern); err != nil {
					return invalid(c.ID, "invalid regex: %v", err)
				}
			}
		case KindExec:
			if len(c.Command) == 0 {
				return invalid(c.ID, "command is empty")
			}
			if c.Pattern != "" || c.Negate {
				return invalid(c.ID, "pattern/negate are only valid for kind %q", KindPattern)
			}
			if c.Timeout < 0 {
				return invalid(c.ID, "timeout must not be negative")
			}
		default:
			return invalid(c.ID, "unknown kind %q", c.Kind)
		}
	}
	return nil
}

// Resolve selects checks by a comma-separated id list. An empty selector
// returns every check in declared order. Repeated ids count once; a selector
// that names no check at all is an error.
func (s *Spec) Resolve(selector string) ([]Check, error) {
	if strings.TrimSpace(selector) == "" {
		return s.Checks, nil
	}

	byID := make(map[string]Check, len(s.Checks))
	for _, c := range s.Checks {
		byID[c.ID] = c
	}

	var selected []Check
	seen := make(map[string]struct{})
	for _, id := range strings.Split(selector, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("check not found: %s", id)
		}
		selected = append(selected, c)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("selector %q names no checks", selector)
	}
	return selected, nil
}
