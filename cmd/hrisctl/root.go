package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hrisctl",
		Short: "Operator tooling for the HRIS timekeeping service",
		Long: `hrisctl prepares storage, mints development access tokens and runs the
attendance and shift calculators offline. Settings are read from .env and
the process environment, the same way the API server reads them.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newCalcCmd())
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
