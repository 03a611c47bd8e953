package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "commitgate",
	Short: "Run declarative pre-commit checks and gate the commit on the result",
	Long: `Commitgate runs the checks declared in a gate spec against a set of
candidate files and rejects the commit when any check fails.

Checks are either pattern searches over file content or external commands
invoked with the file list. All checks run; every violation is reported in a
single pass.

Examples:
	# Show available commands and global flags
	commitgate --help

	# Run the gate against the staged files (the pre-commit case)
	commitgate run

	# Run against explicit files, as a hook manager would invoke it
	commitgate run src/a.py src/b.py

	# List the checks declared in the gate spec
	commitgate checks list

	# Print build info
	commitgate version

Output:
	By default, commands write human-readable output to stdout.
	Structured output is available via emitter flags (see "commitgate run --help").`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints planning and per-check diagnostics)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
