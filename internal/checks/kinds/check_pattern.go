package kinds

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"commitgate/internal/checks"
	"commitgate/internal/gatespec"
	"commitgate/internal/source"
)

// PatternCheck searches the selected files line by line for a textual
// pattern and passes or fails on its presence. Polarity is controlled by
// negate: the default forbids the pattern, negate requires it.
type PatternCheck struct {
	id          string
	description string
	pattern     string
	negate      bool
	match       func(line string) bool
	allow       *checks.AllowList
	src         *source.Loader
}

func buildPattern(spec gatespec.Check, deps checks.Deps) (checks.Check, error) {
	match, err := compileMatcher(spec.Pattern, spec.Regex, spec.IgnoreCase)
	if err != nil {
		return nil, err
	}
	allow, err := checks.NewAllowList(spec.Allow)
	if err != nil {
		return nil, err
	}
	return &PatternCheck{
		id:          spec.ID,
		description: spec.Description,
		pattern:     spec.Pattern,
		negate:      spec.Negate,
		match:       match,
		allow:       allow,
		src:         deps.Source,
	}, nil
}

// compileMatcher turns a declared pattern into a per-line predicate. Literal
// patterns use substring search; regex patterns compile once up front.
func compileMatcher(pattern string, isRegex, ignoreCase bool) (func(string) bool, error) {
	if pattern == "" {
		return nil, fmt.Errorf("pattern is empty")
	}
	if isRegex {
		if ignoreCase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern: %w", err)
		}
		return re.MatchString, nil
	}
	if ignoreCase {
		needle := strings.ToLower(pattern)
		return func(line string) bool {
			return strings.Contains(strings.ToLower(line), needle)
		}, nil
	}
	return func(line string) bool {
		return strings.Contains(line, pattern)
	}, nil
}

func (c *PatternCheck) ID() string       { return c.id }
func (c *PatternCheck) Kind() string     { return gatespec.KindPattern }
func (c *PatternCheck) Describe() string { return c.description }

func (c *PatternCheck) Run(ctx context.Context, files []string) (checks.Result, error) {
	if len(files) == 0 {
		// Vacuous pass for any polarity: with no files selected there is
		// nothing to forbid and nothing to require.
		return checks.SkippedResult(c.id, "no files selected"), nil
	}

	var matches []checks.Match
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return checks.Result{}, err
		}

		f, err := c.src.Load(path)
		if err != nil {
			return checks.Result{}, err
		}
		if f.Binary {
			log.Warn("skipping binary file", "check", c.id, "path", path)
			continue
		}

		for i, line := range f.Lines {
			if c.match(line) {
				matches = append(matches, checks.Match{Path: path, Line: i + 1, Text: line})
			}
		}
	}

	if c.negate {
		if len(matches) > 0 {
			res := checks.PassResultWithMessage(c.id, fmt.Sprintf("required pattern %q present", c.pattern))
			res.Matches = matches
			return res, nil
		}
		return checks.FailResult(c.id, fmt.Sprintf("required pattern %q not found in %d file(s)", c.pattern, len(files))), nil
	}

	blocked, allowed := c.allow.Partition(matches)
	if len(blocked) > 0 {
		res := checks.FailResult(c.id, fmt.Sprintf("forbidden pattern %q found %d time(s)", c.pattern, len(blocked)))
		res.Matches = blocked
		res.Allowed = allowed
		return res, nil
	}

	res := checks.PassResult(c.id)
	res.Allowed = allowed
	if len(allowed) > 0 {
		res.Message = fmt.Sprintf("%d match(es) tolerated by allow globs", len(allowed))
	}
	return res, nil
}

func init() {
	checks.Register(gatespec.KindPattern, buildPattern)
}
