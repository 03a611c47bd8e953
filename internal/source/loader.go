// Package source reads candidate file content for pattern checks.
//
// Checks run concurrently and often select overlapping file subsets, so the
// loader deduplicates in-flight reads with singleflight and caches decoded
// content for the lifetime of the run. All reads are read-only; nothing here
// mutates the worktree.
package source

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// binarySniffLen is how many leading bytes are inspected for a NUL byte to
// classify a file as binary (same heuristic git uses).
const binarySniffLen = 8000

// File is the decoded content of one candidate file.
type File struct {
	Path   string
	Binary bool
	// Lines holds the file's lines without trailing newlines. Empty for
	// binary files.
	Lines []string
}

type Loader struct {
	root  string
	group singleflight.Group
	cache sync.Map // path -> *File
}

// NewLoader returns a loader resolving paths relative to root. An empty root
// means the current directory.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Load reads one file, serving repeated and concurrent requests for the same
// path from cache. A read failure is an environment problem, not a content
// problem; callers treat it as fatal for the run.
func (l *Loader) Load(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("load: empty path")
	}

	if v, ok := l.cache.Load(path); ok {
		return v.(*File), nil
	}

	v, err, _ := l.group.Do(path, func() (any, error) {
		return l.read(path)
	})
	if err != nil {
		return nil, err
	}

	f := v.(*File)
	l.cache.Store(path, f)
	return f, nil
}

func (l *Loader) read(path string) (*File, error) {
	full := path
	if l.root != "" {
		full = l.root + string(os.PathSeparator) + path
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return &File{Path: path, Binary: true}, nil
	}

	return &File{Path: path, Lines: splitLines(data)}, nil
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
