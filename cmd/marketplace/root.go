package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the marketplace CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marketplace",
		Short: "Marketplace account service",
		Long: `Account registration, login and profile management for the
creator marketplace. Configuration is read from the environment and an
optional .env file.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
