package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dbmaint/dbmaint/internal/ops"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single maintenance operation",
	Long: `Run a single maintenance operation against the configured database.

The operation's prerequisite check decides whether the effect is already
present; if so, the run is skipped without touching anything. Destructive
operations print the projected row count and ask for confirmation first.
Exit code is 0 when the operation was applied, skipped, or dry-run; non-zero
on any failure, with the failure classification on stderr.`,
	Example: `  # Apply a schema patch
  dbmaint run --operation add-prompt-type-column

  # See what a cleanup would delete, without deleting
  dbmaint run --operation delete-dojo-decks --dry-run

  # Run against an explicit target, skipping the confirmation prompt
  dbmaint run --operation delete-dojo-decks --db postgres://localhost:5432/srs --yes`,
	Run: runRun,
}

var (
	runOperation   string
	runDryRun      bool
	runDB          string
	runEnvironment string
	runYes         bool
	runOpsFile     string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runOperation, "operation", "", "Operation id to run (see `dbmaint list`)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Report the projected effect without mutating anything")
	runCmd.Flags().StringVar(&runDB, "db", "", "Database connection string (overrides environment selection)")
	runCmd.Flags().StringVar(&runEnvironment, "environment", "", "Named environment from dbmaint.toml")
	runCmd.Flags().BoolVar(&runYes, "yes", false, "Skip the confirmation prompt for destructive operations")
	runCmd.Flags().StringVar(&runOpsFile, "ops-file", "", "JSON file with additional operations to merge into the registry")
	_ = runCmd.MarkFlagRequired("operation")
}

func runRun(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	registry := buildRegistry(runOpsFile)

	db, driver, target := openTarget(runEnvironment, runDB)
	defer func() { _ = db.Close() }()

	runner := ops.NewRunner(db, driver, registry, target)

	// Destructive operations must report what they are about to affect
	// before mutating
	if op, found := registry.Get(runOperation); found && op.Destructive() && !runDryRun && !runYes {
		if !confirmDestructive(ctx, runner, op, target) {
			fmt.Fprintln(os.Stderr, "Cancelled, nothing was changed.")
			os.Exit(1)
		}
	}

	result, err := runner.Run(ctx, runOperation, ops.RunOptions{DryRun: runDryRun})
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %s %s\n", ops.StatusFailed, runOperation)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	printResult(result)
}

// confirmDestructive prints the projected effect and asks for an explicit y/N
func confirmDestructive(ctx context.Context, runner *ops.Runner, op ops.Operation, target string) bool {
	projected, err := runner.Project(ctx, op)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("⚠️  About to run %s against %s\n", op.ID, target)
	fmt.Printf("   %s\n", op.Description)
	fmt.Printf("   Projected rows affected: %d\n", projected)
	fmt.Print("Proceed? (y/N): ")

	var input string
	_, _ = fmt.Scanln(&input)
	return input == "y" || input == "Y"
}

func printResult(result *ops.Result) {
	switch result.Status {
	case ops.StatusApplied:
		if result.Output != "" {
			fmt.Printf("✓ %s %s: %s\n", result.Status, result.OperationID, result.Output)
		} else {
			fmt.Printf("✓ %s %s (rows affected: %d)\n", result.Status, result.OperationID, result.RowsAffected)
		}
	case ops.StatusSkipped:
		fmt.Printf("✓ %s %s: %s\n", result.Status, result.OperationID, result.Output)
	case ops.StatusDryRun:
		fmt.Printf("ℹ️  %s %s: %s\n", result.Status, result.OperationID, result.Output)
	default:
		fmt.Printf("%s %s\n", result.Status, result.OperationID)
	}
}
