package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "civicdesk",
	Short: "Citizen complaint intake and tracking",
	Long: `civicdesk is a command-line client for a municipal complaint backend.
Citizens register, log in, submit complaints with photos and location, and
track their status. Administrators and super-administrators log in through
their own routes to reach their dashboards.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
