package checks

import (
	"fmt"
	"sort"
	"sync"

	"commitgate/internal/gatespec"
)

// Builder constructs a runnable check from its declaration. Builders must
// validate nothing the gate spec already validated; they may still reject
// combinations only visible at build time.
type Builder func(spec gatespec.Check, deps Deps) (Check, error)

var (
	registry = make(map[string]Builder)
	mu       sync.RWMutex
)

// Register installs a builder for a check kind. Kinds form a closed set;
// registering the same kind twice is a programming error.
func Register(kind string, b Builder) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[kind]; exists {
		panic(fmt.Sprintf("check kind %s already registered", kind))
	}
	registry[kind] = b
}

// Build constructs a check from its spec entry.
func Build(spec gatespec.Check, deps Deps) (Check, error) {
	mu.RLock()
	b, ok := registry[spec.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no builder registered for check kind %q", spec.Kind)
	}
	c, err := b(spec, deps)
	if err != nil {
		return nil, fmt.Errorf("build check %q: %w", spec.ID, err)
	}
	return c, nil
}

// Kinds lists the registered check kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
