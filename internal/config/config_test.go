package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	// A project root marker keeps the walk from escaping the temp dir
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("Failed to create marker: %v", err)
	}
	t.Chdir(dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ConfigFilePath != "" {
		t.Errorf("expected no config file, got %q", cfg.ConfigFilePath)
	}
	if cfg.ConfigDir() != "" {
		t.Errorf("expected empty config dir, got %q", cfg.ConfigDir())
	}
}

func TestLoadConfig_ReadsCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	contents := `default_environment = "staging"

[environments.staging]
database_url = "postgres://maint@staging.internal:5432/study"

[environments.local]
database_url = "sqlite://local.db"
`
	if err := os.WriteFile(filepath.Join(dir, "dbmaint.toml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Chdir(dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DefaultEnvironment != "staging" {
		t.Errorf("expected default environment staging, got %q", cfg.DefaultEnvironment)
	}
	if got := cfg.Environments["staging"].DatabaseURL; got != "postgres://maint@staging.internal:5432/study" {
		t.Errorf("unexpected staging url %q", got)
	}
	if got := cfg.Environments["local"].DatabaseURL; got != "sqlite://local.db" {
		t.Errorf("unexpected local url %q", got)
	}
}

func TestLoadConfig_WalksUpToProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("Failed to create marker: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "dbmaint.toml"), []byte(`default_environment = "local"`), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	nested := filepath.Join(root, "scripts", "maintenance")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("Failed to create nested dir: %v", err)
	}
	t.Chdir(nested)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DefaultEnvironment != "local" {
		t.Errorf("expected the parent config to be found, got %q", cfg.DefaultEnvironment)
	}
	if cfg.ConfigDir() == "" {
		t.Error("expected ConfigDir to point at the project root")
	}
}

func TestLoadConfig_StopsAtProjectRoot(t *testing.T) {
	root := t.TempDir()
	// Config above the project root must not be picked up
	if err := os.WriteFile(filepath.Join(root, "dbmaint.toml"), []byte(`default_environment = "outer"`), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	project := filepath.Join(root, "project")
	if err := os.MkdirAll(filepath.Join(project, ".git"), 0o755); err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	t.Chdir(project)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DefaultEnvironment == "outer" {
		t.Error("the walk escaped the project root")
	}
}
