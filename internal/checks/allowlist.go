package checks

import (
	"commitgate/internal/fileset"
)

// AllowList tolerates matches in designated paths. An allowed match is still
// reported so it stays visible, but it no longer fails the gate. This gives
// specs an escape hatch for known legacy occurrences without excluding the
// files from the check entirely.
type AllowList struct {
	sel *fileset.Selector
}

// NewAllowList builds an allow list from glob patterns. Nil is returned for
// an empty pattern list so callers can skip partitioning entirely.
func NewAllowList(globs []string) (*AllowList, error) {
	if len(globs) == 0 {
		return nil, nil
	}
	sel, err := fileset.NewSelector(globs, nil)
	if err != nil {
		return nil, err
	}
	return &AllowList{sel: sel}, nil
}

// Partition splits matches into those that count against the check and those
// tolerated by policy. Input order is preserved in both halves.
func (a *AllowList) Partition(matches []Match) (blocked, allowed []Match) {
	if a == nil {
		return matches, nil
	}
	for _, m := range matches {
		if a.sel.Matches(m.Path) {
			allowed = append(allowed, m)
		} else {
			blocked = append(blocked, m)
		}
	}
	return blocked, allowed
}
