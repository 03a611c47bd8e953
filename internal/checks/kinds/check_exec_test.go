package kinds

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitgate/internal/checks"
	"commitgate/internal/gatespec"
)

func buildExecCheck(t *testing.T, spec gatespec.Check) checks.Check {
	t.Helper()
	spec.Kind = gatespec.KindExec
	c, err := checks.Build(spec, checks.Deps{})
	require.NoError(t, err)
	return c
}

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on POSIX shell utilities")
	}
}

func TestExecCheckPass(t *testing.T) {
	requireUnix(t)

	c := buildExecCheck(t, gatespec.Check{ID: "always-ok", Command: []string{"true"}})
	res, err := c.Run(context.Background(), []string{"a.txt"})
	require.NoError(t, err)
	assert.Equal(t, checks.StatusPass, res.Status)
}

func TestExecCheckFail(t *testing.T) {
	requireUnix(t)

	c := buildExecCheck(t, gatespec.Check{ID: "always-bad", Command: []string{"false"}})
	res, err := c.Run(context.Background(), []string{"a.txt"})
	require.NoError(t, err)
	assert.Equal(t, checks.StatusFail, res.Status)
	assert.Contains(t, res.Message, "exited with code 1")
}

func TestExecCheckAppendsFiles(t *testing.T) {
	requireUnix(t)

	// echo exits 0 no matter the arguments; sh -c lets us assert the file
	// arguments actually reach the command line.
	c := buildExecCheck(t, gatespec.Check{
		ID:      "args",
		Command: []string{"sh", "-c", `test "$1" = "a.txt" && test "$2" = "b.txt"`, "argv0"},
	})
	res, err := c.Run(context.Background(), []string{"a.txt", "b.txt"})
	require.NoError(t, err)
	assert.Equal(t, checks.StatusPass, res.Status)
}

func TestExecCheckMissingBinary(t *testing.T) {
	c := buildExecCheck(t, gatespec.Check{ID: "ghost", Command: []string{"commitgate-no-such-binary"}})
	res, err := c.Run(context.Background(), []string{"a.txt"})
	require.NoError(t, err, "a missing binary is a per-check error, not a run abort")
	assert.Equal(t, checks.StatusError, res.Status)
	assert.Contains(t, res.Message, "failed to start")
}

func TestExecCheckTimeout(t *testing.T) {
	requireUnix(t)

	c := buildExecCheck(t, gatespec.Check{
		ID:      "slow",
		Command: []string{"sleep", "5"},
		Timeout: gatespec.Duration(50 * time.Millisecond),
	})
	res, err := c.Run(context.Background(), []string{"a.txt"})
	require.NoError(t, err)
	assert.Equal(t, checks.StatusError, res.Status)
	assert.Contains(t, res.Message, "timed out")
}

func TestExecCheckEmptySelection(t *testing.T) {
	c := buildExecCheck(t, gatespec.Check{ID: "noop", Command: []string{"true"}})
	res, err := c.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, checks.StatusSkipped, res.Status)
}

func TestExecCheckCanceledRun(t *testing.T) {
	requireUnix(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := buildExecCheck(t, gatespec.Check{ID: "canceled", Command: []string{"sleep", "5"}})
	_, err := c.Run(ctx, []string{"a.txt"})
	assert.ErrorIs(t, err, context.Canceled)
}
