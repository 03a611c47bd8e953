package gatespec

import (
	"fmt"
	"os"
)

// DefaultPath is where Load looks when no spec path is given.
const DefaultPath = ".commitgate.yaml"

// Load reads and validates a gate spec from a YAML file.
func Load(path string) (*Spec, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gate spec: %w", err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}
