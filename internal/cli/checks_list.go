package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"commitgate/internal/flags"
	"commitgate/internal/gatespec"
)

var (
	checksListQuiet bool
	checksSpecPath  string
)

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Inspect the checks declared in the gate spec",
	Long: `Inspect the gate spec.

This command group helps you discover which checks a spec declares and what
each check does. Checks are executed during runs (see "commitgate run --help").

Examples:
  # List all declared checks
  commitgate checks list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var checksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List declared checks",
	Long: `List every check declared in the gate spec, in declared order.

Examples:
  commitgate checks list
  commitgate checks list --spec ci/gate.yaml
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := gatespec.Load(checksSpecPath)
		if err != nil {
			return err
		}

		for _, c := range spec.Checks {
			if checksListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			} else {
				printCheck(cmd.OutOrStdout(), c)
			}
		}
		return nil
	},
}

var checksShowCmd = &cobra.Command{
	Use:   "show [check-id]",
	Short: "Show details of a specific check",
	Long: `Show details of a specific check by its id.

Examples:
  commitgate checks show typo-syncroniz
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(args[0]) == "" {
			return fmt.Errorf("check id required")
		}
		spec, err := gatespec.Load(checksSpecPath)
		if err != nil {
			return err
		}
		selected, err := spec.Resolve(args[0])
		if err != nil {
			return err
		}
		printCheck(cmd.OutOrStdout(), selected[0])
		return nil
	},
}

func printCheck(w io.Writer, c gatespec.Check) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "CHECK: %s\n", c.ID)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Kind: %s\n", c.Kind)
	if c.Description != "" {
		fmt.Fprintln(w, c.Description)
	}
	switch c.Kind {
	case gatespec.KindPattern:
		polarity := "forbid"
		if c.Negate {
			polarity = "require"
		}
		fmt.Fprintf(w, "Pattern: %q (%s", c.Pattern, polarity)
		if c.IgnoreCase {
			fmt.Fprint(w, ", case-insensitive")
		}
		if c.Regex {
			fmt.Fprint(w, ", regex")
		}
		fmt.Fprintln(w, ")")
	case gatespec.KindExec:
		fmt.Fprintf(w, "Command: %s\n", strings.Join(c.Command, " "))
		if c.Timeout > 0 {
			fmt.Fprintf(w, "Timeout: %s\n", c.Timeout.Std())
		}
	}
	if len(c.Include) > 0 {
		fmt.Fprintf(w, "Include: %s\n", strings.Join(c.Include, ", "))
	}
	if len(c.Exclude) > 0 {
		fmt.Fprintf(w, "Exclude: %s\n", strings.Join(c.Exclude, ", "))
	}
	if len(c.Allow) > 0 {
		fmt.Fprintf(w, "Allow:   %s\n", strings.Join(c.Allow, ", "))
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(checksCmd)
	checksCmd.PersistentFlags().StringVar(&checksSpecPath, flags.FlagSpec, "", "Path to the gate spec (default: .commitgate.yaml)")
	checksCmd.AddCommand(checksListCmd)
	checksListCmd.Flags().BoolVarP(&checksListQuiet, "quiet", "q", false, "Only print check ids")
	checksCmd.AddCommand(checksShowCmd)
}
