package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the operations in the registry",
	Run:   runList,
}

var (
	listOutput  string
	listOpsFile string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOutput, "output", "", "Output format: json")
	listCmd.Flags().StringVar(&listOpsFile, "ops-file", "", "JSON file with additional operations to merge into the registry")
}

func runList(cmd *cobra.Command, args []string) {
	registry := buildRegistry(listOpsFile)

	if listOutput == "json" {
		jsonBytes, err := json.MarshalIndent(registry.All(), "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal registry to JSON: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLASS\tDESCRIPTION")
	for _, op := range registry.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", op.ID, op.Class, op.Description)
	}
	_ = w.Flush()
}
