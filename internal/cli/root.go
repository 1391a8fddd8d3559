// Package cli is the terminal client: it plays today's challenge against
// a provider.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bowlingdle",
		Short:         "Bowlingdle: call the strike before the pins fall",
		Long:          "bowlingdle plays the daily bowling challenge in the terminal: watch the approach, call strike or not, then name the pins left standing.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newPlayCmd(),
	)

	return rootCmd
}
