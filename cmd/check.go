package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/dbmaint/dbmaint/internal/sqlcheck"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Lint the SQL of every operation in the registry",
	Long: `Lint the SQL of every operation in the registry: statement bodies must
parse, and destructive statements must carry their guards (no unguarded
DELETE/UPDATE, no TRUNCATE, no DROP TABLE).

Use --ops-file to lint a custom operations file before pointing a run at
production.`,
	Run: runCheck,
}

var (
	checkOutput  string
	checkOpsFile string
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkOutput, "output", "", "Output format: json")
	checkCmd.Flags().StringVar(&checkOpsFile, "ops-file", "", "JSON file with additional operations to merge into the registry")
}

func runCheck(cmd *cobra.Command, args []string) {
	registry := buildRegistry(checkOpsFile)

	report := sqlcheck.CheckRegistry(registry)

	if checkOutput == "json" {
		jsonBytes, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal report to JSON: %v", err)
		}
		fmt.Println(string(jsonBytes))
		if !report.Valid {
			os.Exit(1)
		}
		return
	}

	if len(report.Issues) == 0 {
		fmt.Printf("✓ %d operations checked, no issues\n", len(registry.All()))
		return
	}

	for _, issue := range report.Issues {
		marker := "⚠️ "
		if issue.Severity == "error" {
			marker = "✗"
		}
		if issue.Statement > 0 {
			fmt.Fprintf(os.Stderr, "%s %s (statement %d): %s\n", marker, issue.OperationID, issue.Statement, issue.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", marker, issue.OperationID, issue.Message)
		}
	}

	if !report.Valid {
		os.Exit(1)
	}
}
