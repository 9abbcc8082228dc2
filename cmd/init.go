package cmd

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dbmaint/dbmaint/internal/config"
	"github.com/dbmaint/dbmaint/internal/wizard"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a dbmaint.toml in the current directory",
	Long: `Create a dbmaint.toml in the current directory.

Without flags this starts an interactive wizard. With --environment and --db
it writes the file directly (for scripted setups).`,
	Run: runInit,
}

var (
	initEnvironment string
	initDB          string
	initForce       bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initEnvironment, "environment", "", "Environment name to write (skips the wizard when combined with --db)")
	initCmd.Flags().StringVar(&initDB, "db", "", "Database connection string to write (skips the wizard when combined with --environment)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing dbmaint.toml")
}

func runInit(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	if cfg.ConfigFilePath != "" && !initForce {
		fmt.Fprintf(os.Stderr, "dbmaint.toml already exists at %s (use --force to overwrite)\n", cfg.ConfigFilePath)
		os.Exit(1)
	}

	var answers wizard.Answers

	if initEnvironment != "" || initDB != "" {
		// Non-interactive path
		if initEnvironment == "" {
			initEnvironment = "local"
		}
		if err := wizard.ValidateEnvironmentName(initEnvironment); err != nil {
			log.Fatalf("Invalid environment name: %v", err)
		}
		if err := wizard.ValidateDatabaseURL(initDB); err != nil {
			log.Fatalf("Invalid database URL: %v", err)
		}
		answers = wizard.Answers{Environment: initEnvironment, DatabaseURL: initDB}
	} else {
		finalModel, err := tea.NewProgram(wizard.New()).Run()
		if err != nil {
			log.Fatalf("Wizard failed: %v", err)
		}
		m, ok := finalModel.(wizard.Model)
		if !ok || m.Cancelled || m.Answers == nil {
			fmt.Fprintln(os.Stderr, "Cancelled, no file written.")
			os.Exit(1)
		}
		answers = *m.Answers
	}

	contents := wizard.RenderConfig(answers)
	if err := os.WriteFile("dbmaint.toml", []byte(contents), 0o644); err != nil {
		log.Fatalf("Failed to write dbmaint.toml: %v", err)
	}

	fmt.Println("✓ Wrote dbmaint.toml")
	fmt.Printf("  default environment: %s\n", answers.Environment)
}
