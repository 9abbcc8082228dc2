package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dbmaint/dbmaint/internal/ops"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Run the read-only diagnostic operations against the target",
	Long: `Run every read-only diagnostic operation (connection check, queue depth,
deck counts) and print one line per probe. Diagnostics perform no mutation,
so they are never gated by dry-run.`,
	Run: runStatus,
}

var (
	statusDB          string
	statusEnvironment string
)

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusDB, "db", "", "Database connection string (overrides environment selection)")
	statusCmd.Flags().StringVar(&statusEnvironment, "environment", "", "Named environment from dbmaint.toml")
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	registry := ops.NewRegistry()

	db, driver, target := openTarget(statusEnvironment, statusDB)
	defer func() { _ = db.Close() }()

	runner := ops.NewRunner(db, driver, registry, target)

	fmt.Printf("Target: %s\n", target)

	failed := false
	for _, op := range registry.ReadOnly() {
		result, err := runner.Run(ctx, op.ID, ops.RunOptions{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", op.ID, err)
			failed = true
			continue
		}
		fmt.Printf("✓ %s: %s\n", op.ID, result.Output)
	}

	if failed {
		os.Exit(1)
	}
}
