package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultEnvironmentName = "local"

// ResolvedTarget is the connection target used for one invocation. The URL is
// the only credential-bearing value and is never hard-coded: it comes from a
// flag, the process environment, a dotenv file, or dbmaint.toml.
type ResolvedTarget struct {
	Environment string
	DatabaseURL string
	FromConfig  bool
	FromDotenv  bool
}

// ResolveTarget resolves the connection target for one invocation.
// Priority: explicit --db value > DATABASE_URL env var > .env.<name> file >
// [environments.<name>] in dbmaint.toml.
func ResolveTarget(cfg *Config, envName, explicitURL string) (*ResolvedTarget, error) {
	if explicitURL != "" {
		return &ResolvedTarget{DatabaseURL: explicitURL}, nil
	}
	if envValue := os.Getenv("DATABASE_URL"); envValue != "" {
		return &ResolvedTarget{DatabaseURL: envValue}, nil
	}

	name := strings.TrimSpace(envName)
	if name == "" {
		if cfg != nil && cfg.DefaultEnvironment != "" {
			name = cfg.DefaultEnvironment
		} else {
			name = defaultEnvironmentName
		}
	}

	resolved := &ResolvedTarget{Environment: name}

	if cfg != nil && cfg.Environments != nil {
		if envConfig, ok := cfg.Environments[name]; ok {
			resolved.DatabaseURL = envConfig.DatabaseURL
			resolved.FromConfig = true
		}
	}

	// A .env.<name> file next to dbmaint.toml (or in the cwd) overrides the
	// config value
	baseDir := cfg.ConfigDir()
	if baseDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			baseDir = cwd
		}
	}
	dotenvPath := filepath.Join(baseDir, ".env."+name)

	if info, err := os.Stat(dotenvPath); err == nil && !info.IsDir() {
		values, err := godotenv.Read(dotenvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
		resolved.FromDotenv = true

		if value := values["DATABASE_URL"]; value != "" {
			resolved.DatabaseURL = value
		} else if value := values["POSTGRES_URL"]; value != "" {
			resolved.DatabaseURL = value
		}
	}

	if resolved.DatabaseURL == "" {
		return nil, fmt.Errorf("environment %q does not define a database connection; provide --db, set DATABASE_URL, or configure dbmaint.toml / .env.%s", name, name)
	}

	return resolved, nil
}

// WarnSuspiciousPort prints a warning when the target uses port 5032. Legacy
// scripts carried that port where 5432 was almost certainly meant; the run is
// not blocked, but the operator must confirm the target is intentional.
func WarnSuspiciousPort(w io.Writer, rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	if u.Port() == "5032" {
		fmt.Fprintf(w, "⚠️  Warning: target uses port 5032, which looks like a transposition of 5432.\n")
		fmt.Fprintf(w, "   Confirm the port before trusting this run.\n")
	}
}
