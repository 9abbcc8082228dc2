package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/dbmaint/dbmaint/database"
	"github.com/dbmaint/dbmaint/internal/config"
	"github.com/dbmaint/dbmaint/internal/ops"
)

// buildRegistry returns the built-in registry, optionally merged with a
// custom operations file
func buildRegistry(opsFile string) *ops.Registry {
	registry := ops.NewRegistry()
	if opsFile != "" {
		if err := ops.MergeFile(registry, opsFile); err != nil {
			log.Fatalf("Failed to load operations file: %v", err)
		}
	}
	return registry
}

// openTarget resolves the connection target and opens it. Connection failures
// are fatal and non-retried.
func openTarget(envName, explicitURL string) (*sql.DB, database.Driver, string) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	target, err := config.ResolveTarget(cfg, envName, explicitURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ops.ConnectionFailure, err)
		os.Exit(1)
	}

	config.WarnSuspiciousPort(os.Stderr, target.DatabaseURL)

	db, driver, err := database.Open(target.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: target %s: %v\n",
			ops.ConnectionFailure, database.Redact(target.DatabaseURL), err)
		os.Exit(1)
	}

	return db, driver, database.Redact(target.DatabaseURL)
}
