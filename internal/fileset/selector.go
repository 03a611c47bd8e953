package fileset

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Selector decides which candidate files a check applies to.
//
// A file is selected iff it matches at least one include pattern (an empty
// include list matches everything) and no exclude pattern. Patterns are
// doublestar globs over repo-relative slash paths, so "**/*.go" crosses
// directory boundaries.
type Selector struct {
	include []string
	exclude []string
}

func NewSelector(include, exclude []string) (*Selector, error) {
	for _, g := range include {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid include pattern %q", g)
		}
	}
	for _, g := range exclude {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid exclude pattern %q", g)
		}
	}
	return &Selector{include: include, exclude: exclude}, nil
}

// Matches reports whether a single path passes the selector.
func (s *Selector) Matches(path string) bool {
	if len(s.include) > 0 && !matchesAny(s.include, path) {
		return false
	}
	return !matchesAny(s.exclude, path)
}

// Select filters files, preserving input order. Identical inputs always
// produce identical output.
func (s *Selector) Select(files []string) []string {
	if len(s.include) == 0 && len(s.exclude) == 0 {
		return files
	}
	var selected []string
	for _, f := range files {
		if s.Matches(f) {
			selected = append(selected, f)
		}
	}
	return selected
}

func matchesAny(patterns []string, path string) bool {
	for _, g := range patterns {
		// Patterns are validated at construction; Match only errors on bad
		// patterns, so the error can be ignored here.
		if ok, _ := doublestar.Match(g, path); ok {
			return true
		}
	}
	return false
}
