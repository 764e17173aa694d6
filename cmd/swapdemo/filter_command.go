package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipp01105/swaplog/envlog"
)

func newFilterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filter [directives]",
		Short: "Show how filter directives are interpreted",
		Long: `Parses the given directives, or SWAPLOG_LOG when none are given, and prints
the effective filter with the most specific directive first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := os.Getenv(envlog.DefaultEnv().FilterVar)
			if len(args) == 1 {
				spec = args[0]
			}
			return printFilter(cmd.OutOrStdout(), cmd.ErrOrStderr(), spec)
		},
	}
}

func printFilter(out, diag io.Writer, spec string) error {
	l := envlog.NewBuilder().
		Diagnostics(diag).
		Parse(spec).
		Target(io.Discard).
		Build()
	defer l.Close()

	f := l.Directives()
	for _, d := range f.Directives() {
		target := d.Target
		if target == "" {
			target = "(default)"
		}
		fmt.Fprintf(out, "%-24s %s\n", target, d.Level)
	}
	fmt.Fprintf(out, "max level: %s\n", f.MaxLevel())
	return nil
}
