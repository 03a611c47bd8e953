package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"commitgate/internal/checks"
	"commitgate/internal/config"
	"commitgate/internal/fileset"
	"commitgate/internal/gatespec"
	"commitgate/internal/output"
	"commitgate/internal/source"
)

func exitCodeForRun(fatal, partial, failures bool) int {
	// Exit code contract:
	// 0 = every check passed
	// 1 = at least one check failed (content violation)
	// 2 = partial failure (a check errored, e.g. missing external binary)
	// 3 = fatal error (invalid spec, unreadable file; the gate did not run
	//     to completion)
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	if failures {
		return 1
	}
	return 0
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(os.Stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// resolveCandidates builds the candidate FileSet for this run. Explicit file
// arguments (as passed by the host hook mechanism) win over git discovery.
func resolveCandidates(cfg *config.Config) ([]string, error) {
	var (
		files []string
		err   error
	)
	switch {
	case len(cfg.Targeting.Files) > 0:
		files = fileset.Normalize(cfg.Targeting.Files)
	case cfg.Targeting.All:
		files, err = fileset.Tracked(cfg.Targeting.Root)
	default:
		files, err = fileset.Staged(cfg.Targeting.Root)
	}
	if err != nil {
		return nil, err
	}

	if len(cfg.Targeting.Include) == 0 && len(cfg.Targeting.Exclude) == 0 {
		return files, nil
	}
	sel, err := fileset.NewSelector(cfg.Targeting.Include, cfg.Targeting.Exclude)
	if err != nil {
		return nil, err
	}
	return sel.Select(files), nil
}

func maybeDryRun(cfg *config.Config, plan *RunPlan) (int, bool) {
	if !cfg.Targeting.DryRun {
		return 0, false
	}

	fmt.Println("Resolved checks:")
	for _, entry := range plan.Entries {
		fmt.Printf("  %s (%s): %d file(s)\n", entry.Spec.ID, entry.Spec.Kind, len(entry.Files))
	}
	fmt.Println("Candidate files:")
	for _, f := range plan.Candidates {
		fmt.Printf("  %s\n", f)
	}
	return 0, true
}

// Engine orchestrates one gate run: load the spec, resolve candidates, plan,
// execute, report.
type Engine struct {
	// schedulerExecute is a test seam. If nil, Engine uses the real
	// scheduler.
	schedulerExecute func(ctx context.Context, cfg *config.Config, plan *RunPlan) ([]checks.Result, error)
}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) executePlan(ctx context.Context, cfg *config.Config, plan *RunPlan) ([]checks.Result, error) {
	if e.schedulerExecute != nil {
		return e.schedulerExecute(ctx, cfg, plan)
	}
	scheduler, err := NewScheduler(cfg.Runtime.Concurrency, cfg.Runtime.FailFast)
	if err != nil {
		return nil, err
	}
	return scheduler.Execute(ctx, plan)
}

// Run executes the whole gate and returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	fatal := func(err error) int {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForRun(true, false, false)
	}

	// The default spec lives in the repo being gated, not the process CWD.
	specPath := cfg.Targeting.Spec
	if specPath == "" {
		specPath = filepath.Join(cfg.Targeting.Root, gatespec.DefaultPath)
	}
	spec, err := gatespec.Load(specPath)
	if err != nil {
		return fatal(err)
	}

	selected, err := spec.Resolve(cfg.Checks.Selector)
	if err != nil {
		return fatal(err)
	}

	candidates, err := resolveCandidates(cfg)
	if err != nil {
		return fatal(err)
	}

	deps := checks.Deps{Source: source.NewLoader(cfg.Targeting.Root), Root: cfg.Targeting.Root}
	plan, err := BuildPlan(selected, candidates, deps)
	if err != nil {
		return fatal(err)
	}

	if code, ok := maybeDryRun(cfg, plan); ok {
		return code
	}

	outMgr, err := setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	defer outMgr.Close()

	_ = outMgr.Write(output.Event{Type: "run.started", Checks: len(plan.Entries), Files: len(plan.Candidates)})

	if cfg.Runtime.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Runtime.Timeout)
		defer cancel()
	}

	results, err := e.executePlan(ctx, cfg, plan)
	if err != nil {
		_ = outMgr.Write(output.Event{Type: "run.finished", ExitCode: 3})
		return fatal(err)
	}

	for _, res := range results {
		_ = outMgr.Write(res)
	}

	report := summarize(results)
	code := exitCodeForRun(false, report.Counts.Errored > 0, report.Counts.Failed > 0)
	_ = outMgr.Write(output.Event{
		Type:     "run.finished",
		Checks:   report.Counts.Total(),
		Passed:   report.Counts.Passed,
		Failed:   report.Counts.Failed,
		Errored:  report.Counts.Errored,
		Skipped:  report.Counts.Skipped,
		ExitCode: code,
	})
	return code
}
