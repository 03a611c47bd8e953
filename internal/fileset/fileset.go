// Package fileset supplies the ordered list of candidate files a gate run
// operates over, and the path selectors that scope checks to subsets of it.
//
// The gate runner never discovers files on its own beyond what the caller
// asks for: candidates come from explicit arguments (as passed by the host
// hook mechanism), from the git index, or from the tree at HEAD.
package fileset

import (
	"path/filepath"
	"sort"
)

// Normalize converts explicit file arguments into canonical candidate form:
// slash-separated, deduplicated, sorted.
func Normalize(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	var out []string
	for _, f := range files {
		f = filepath.ToSlash(filepath.Clean(f))
		if f == "" || f == "." {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
