package kinds

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"commitgate/internal/checks"
	"commitgate/internal/gatespec"
)

// maxCapturedOutput bounds how much of a failing command's output is carried
// into the result.
const maxCapturedOutput = 16 * 1024

// ExecCheck delegates to an external executable. The selected files are
// appended to the declared argv; the check passes iff the process exits 0.
// The formatter, type checker and linter hooks of a typical gate spec are all
// expressed this way.
type ExecCheck struct {
	id          string
	description string
	argv        []string
	timeout     gatespec.Duration
	dir         string
}

func buildExec(spec gatespec.Check, deps checks.Deps) (checks.Check, error) {
	if len(spec.Command) == 0 {
		return nil, fmt.Errorf("command is empty")
	}
	return &ExecCheck{
		id:          spec.ID,
		description: spec.Description,
		argv:        spec.Command,
		timeout:     spec.Timeout,
		dir:         deps.Root,
	}, nil
}

func (c *ExecCheck) ID() string       { return c.id }
func (c *ExecCheck) Kind() string     { return gatespec.KindExec }
func (c *ExecCheck) Describe() string { return c.description }

func (c *ExecCheck) Run(ctx context.Context, files []string) (checks.Result, error) {
	if len(files) == 0 {
		return checks.SkippedResult(c.id, "no files selected"), nil
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout.Std())
		defer cancel()
	}

	args := make([]string, 0, len(c.argv)-1+len(files))
	args = append(args, c.argv[1:]...)
	args = append(args, files...)

	log.Debug("running external check", "check", c.id, "command", c.argv[0], "files", len(files))
	cmd := exec.CommandContext(runCtx, c.argv[0], args...)
	cmd.Dir = c.dir
	out, err := cmd.CombinedOutput()
	output := trimOutput(out)

	if err == nil {
		res := checks.PassResult(c.id)
		return res, nil
	}

	// The parent context ending is a run-level event, not this check's
	// verdict.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return checks.Result{}, ctxErr
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return checks.ErrorResult(c.id, fmt.Sprintf("command timed out after %s", c.timeout.Std())), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res := checks.FailResult(c.id, fmt.Sprintf("command exited with code %d", exitErr.ExitCode()))
		res.Output = output
		return res, nil
	}

	// The command could not be started at all (missing binary, permission
	// problem). The run continues; the exit code reflects a partial failure.
	return checks.ErrorResult(c.id, fmt.Sprintf("command failed to start: %v", err)), nil
}

func trimOutput(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > maxCapturedOutput {
		s = s[:maxCapturedOutput] + "\n... (output truncated)"
	}
	return s
}

func init() {
	checks.Register(gatespec.KindExec, buildExec)
}
