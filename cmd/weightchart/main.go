package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &buildOptions{}

	rootCmd := &cobra.Command{
		Use:           "weightchart",
		Short:         "Build weight trend chart models from a local weight log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.historyPath, "history", "", "path to a .json, .yaml or .db (sqlite) weight history")
	rootCmd.PersistentFlags().StringVar(&opts.userID, "user", "", "user id, required for sqlite histories")
	rootCmd.PersistentFlags().StringVarP(&opts.window, "window", "w", "1M", "time window: 1W, 1M, 3M, 6M, 1Y or ALL")
	rootCmd.PersistentFlags().Float64Var(&opts.width, "width", 360, "viewport width")
	rootCmd.PersistentFlags().Float64Var(&opts.height, "height", 220, "viewport height")
	rootCmd.PersistentFlags().Float64Var(&opts.padding, "padding", 20, "viewport padding")
	rootCmd.PersistentFlags().Float64Var(&opts.target, "target", 0, "target weight in kg, overrides the history profile")
	rootCmd.PersistentFlags().Float64Var(&opts.current, "current", 0, "current weight in kg, overrides the history profile")
	rootCmd.PersistentFlags().StringVar(&opts.now, "now", "", "reference time (RFC3339), defaults to the current time")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "json", "output format: json, yaml or svg")

	rootCmd.AddCommand(
		newBuildCmd(opts),
		newWatchCmd(opts),
		newWindowsCmd(),
	)

	return rootCmd
}
