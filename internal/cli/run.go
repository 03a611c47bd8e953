package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"commitgate/internal/config"
	"commitgate/internal/engine"
	"commitgate/internal/flags"
)

var cfg = config.New()

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Run the gate against a set of candidate files",
	Long: `Run every check in the gate spec against the candidate files and exit
non-zero if the commit should be rejected.

Candidates:
	Positional file arguments win (this is how hook managers invoke the
	gate). Without arguments the staged files are used; --all switches to
	every file tracked at HEAD.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown summary to a file
	- --no-console: suppress the console sink (use with --emit/--out)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events
	with a "type" field (run.started, check.result, run.finished). Check
	results are represented as an Event with type "check.result" and a
	nested "result" object.

Exit codes:
	0 = every check passed
	1 = at least one check failed
	2 = partial failure (some check errored, e.g. a missing external tool)
	3 = fatal error (invalid spec, unreadable file; the gate did not run)

Examples:
  # Pre-commit hook: gate the staged files
  commitgate run

  # Gate specific files, machine-readable
  commitgate run --no-console --emit ndjson src/a.py

  # Everything tracked, with a Markdown report
  commitgate run --all --report gate-report.md
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg.Targeting.Files = args

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		log.SetReportTimestamp(false)
		if cfg.Runtime.Verbose {
			log.SetLevel(log.DebugLevel)
		}

		eng := engine.New()
		os.Exit(eng.Run(context.Background(), cfg))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Targeting
	runCmd.Flags().StringVar(&cfg.Targeting.Spec, flags.FlagSpec, "", "Path to the gate spec (default: .commitgate.yaml)")
	runCmd.Flags().StringVar(&cfg.Targeting.Root, flags.FlagRoot, ".", "Repository root to operate in")
	runCmd.Flags().BoolVar(&cfg.Targeting.Staged, flags.FlagStaged, false, "Gate the files staged in the git index (default when no files are given)")
	runCmd.Flags().BoolVar(&cfg.Targeting.All, flags.FlagAll, false, "Gate every file tracked at HEAD")
	runCmd.Flags().StringSliceVar(&cfg.Targeting.Include, flags.FlagInclude, nil, "Candidate include glob(s) (doublestar; repeatable; comma-separated accepted)")
	runCmd.Flags().StringSliceVar(&cfg.Targeting.Exclude, flags.FlagExclude, nil, "Candidate exclude glob(s) (same matching rules as --include)")
	runCmd.Flags().BoolVar(&cfg.Targeting.DryRun, flags.FlagDryRun, false, "Resolve checks and candidates and print the plan without running")

	// Checks
	runCmd.Flags().StringVar(&cfg.Checks.Selector, flags.FlagChecks, "", "Comma-separated check ids to run (empty = all checks)")

	// Output
	runCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson")
	runCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Filter console output by status (PASS, FAIL, ERROR, SKIPPED). Comma-separated.")
	runCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	runCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	runCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	runCmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable)")
	runCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")

	// Runtime
	runCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Concurrent check workers (default: number of CPUs)")
	runCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout for the run")
	runCmd.Flags().BoolVar(&cfg.Runtime.FailFast, flags.FlagFailFast, false, "Cancel remaining checks after the first failure")
}
