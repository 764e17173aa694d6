package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/philipp01105/swaplog/envlog"
)

func newRootCommand() *cobra.Command {
	opts := runOptions{color: envlog.ColorAuto}

	rootCmd := &cobra.Command{
		Use:   "swapdemo",
		Short: "Log from concurrent workers while switching color output at runtime",
		Long: `swapdemo registers a shared logger, starts worker goroutines that log
continuously and switches the color choice on a timer. Filter directives are
read from SWAPLOG_LOG (falling back to --filter) and SWAPLOG_LOG_STYLE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.Var(&opts.color, "color", "Initial color output: always, never or auto")
	flags.IntVar(&opts.workers, "workers", 4, "Number of logging goroutines")
	flags.IntVar(&opts.swaps, "swaps", 20, "Number of color switches before exiting")
	flags.DurationVar(&opts.interval, "interval", 100*time.Millisecond, "Time between color switches")
	flags.StringVar(&opts.filter, "filter", "info", "Filter directives used when SWAPLOG_LOG is unset")
	flags.BoolVar(&opts.async, "async", false, "Write records on a background goroutine")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	rootCmd.AddCommand(newFilterCommand())

	return rootCmd
}
