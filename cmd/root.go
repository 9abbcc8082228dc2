package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dbmaint",
	Short: "dbmaint runs idempotent maintenance operations against the study service database.",
	Long: `dbmaint runs idempotent maintenance operations against the study service
database: schema patches, guarded bulk deletes, and read-only diagnostics.

Every operation is defined in a static registry, carries a prerequisite check,
and is safe to re-run. Destructive operations report the row count they are
about to affect before mutating anything.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
