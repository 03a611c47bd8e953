package gatespec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpec = `
checks:
  - id: typo-syncroniz
    description: Catch the recurring "syncroniz" typo.
    pattern: syncroniz
    ignore_case: true
  - id: mime-icalendar
    pattern: text/icalendar
    ignore_case: true
    exclude: ["CHANGELOG.md"]
  - id: gofmt
    kind: exec
    include: ["**/*.go"]
    command: ["gofmt", "-l"]
    timeout: 30s
`

func TestParse(t *testing.T) {
	spec, err := Parse([]byte(sampleSpec))
	require.NoError(t, err)
	require.Len(t, spec.Checks, 3)

	assert.Equal(t, "typo-syncroniz", spec.Checks[0].ID)
	assert.Equal(t, KindPattern, spec.Checks[0].Kind, "kind defaults to pattern")
	assert.True(t, spec.Checks[0].IgnoreCase)
	assert.False(t, spec.Checks[0].Negate)

	exec := spec.Checks[2]
	assert.Equal(t, KindExec, exec.Kind)
	assert.Equal(t, []string{"gofmt", "-l"}, exec.Command)
	assert.Equal(t, 30*time.Second, exec.Timeout.Std())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "empty pattern",
			yaml: "checks:\n  - id: bad\n    pattern: \"\"\n",
			want: "pattern is empty",
		},
		{
			name: "missing id",
			yaml: "checks:\n  - pattern: foo\n",
			want: "has no id",
		},
		{
			name: "duplicate id",
			yaml: "checks:\n  - id: a\n    pattern: x\n  - id: a\n    pattern: y\n",
			want: "duplicate check id",
		},
		{
			name: "unknown kind",
			yaml: "checks:\n  - id: a\n    kind: webhook\n    pattern: x\n",
			want: "unknown kind",
		},
		{
			name: "exec without command",
			yaml: "checks:\n  - id: a\n    kind: exec\n",
			want: "command is empty",
		},
		{
			name: "bad regex",
			yaml: "checks:\n  - id: a\n    pattern: \"([\"\n    regex: true\n",
			want: "invalid regex",
		},
		{
			name: "bad glob",
			yaml: "checks:\n  - id: a\n    pattern: x\n    include: [\"[\"]\n",
			want: "invalid glob",
		},
		{
			name: "no checks",
			yaml: "checks: []\n",
			want: "no checks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			var invalid *InvalidSpecError
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolve(t *testing.T) {
	spec, err := Parse([]byte(sampleSpec))
	require.NoError(t, err)

	all, err := spec.Resolve("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := spec.Resolve("gofmt, typo-syncroniz")
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "gofmt", some[0].ID)
	assert.Equal(t, "typo-syncroniz", some[1].ID)

	_, err = spec.Resolve("nope")
	assert.ErrorContains(t, err, "check not found: nope")

	// Repeated ids count once so the report keeps one result per id.
	deduped, err := spec.Resolve("gofmt,gofmt")
	require.NoError(t, err)
	assert.Len(t, deduped, 1)

	// A selector of only separators names nothing and must not fall back
	// to the run-everything default.
	for _, sel := range []string{",", " , ", ",,"} {
		_, err = spec.Resolve(sel)
		assert.ErrorContains(t, err, "names no checks", sel)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSpec), 0o644))

	spec, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, spec.Checks, 3)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read gate spec")

	require.NoError(t, os.WriteFile(path, []byte("checks: [}"), 0o644))
	_, err = Load(path)
	var invalid *InvalidSpecError
	assert.ErrorAs(t, err, &invalid)
}

func TestDurationUnmarshal(t *testing.T) {
	_, err := Parse([]byte("checks:\n  - id: a\n    kind: exec\n    command: [\"true\"]\n    timeout: banana\n"))
	assert.ErrorContains(t, err, "invalid timeout")
}
