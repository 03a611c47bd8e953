// Package flags defines canonical CLI flag names shared across the CLI and
// engine. Keeping these as constants avoids drift between Cobra flag wiring
// and other code paths that reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
package flags

const (
	// Targeting
	FlagSpec    = "spec"
	FlagRoot    = "root"
	FlagStaged  = "staged"
	FlagAll     = "all"
	FlagInclude = "include"
	FlagExclude = "exclude"
	FlagDryRun  = "dry-run"

	// Checks
	FlagChecks = "checks"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagReport              = "report"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagEmit                = "emit"
	FlagNoConsole           = "no-console"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagFailFast    = "fail-fast"
)
