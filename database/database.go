package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dbmaint/dbmaint/database/postgres"
	"github.com/dbmaint/dbmaint/database/sqlite"
)

// Ensure both probe drivers implement Driver
var (
	_ Driver = (*postgres.Driver)(nil)
	_ Driver = (*sqlite.Driver)(nil)
)

// DetectDriver determines the database driver type from a connection string
func DetectDriver(connString string) string {
	lower := strings.ToLower(connString)

	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return "postgres"
	}

	if strings.HasPrefix(lower, "libsql://") || strings.HasPrefix(lower, "wss://") || strings.HasPrefix(lower, "ws://") {
		return "libsql"
	}

	if strings.HasPrefix(lower, "sqlite://") ||
		strings.HasPrefix(lower, "file:") ||
		lower == ":memory:" ||
		strings.HasSuffix(lower, ".db") ||
		strings.HasSuffix(lower, ".sqlite") ||
		strings.HasSuffix(lower, ".sqlite3") {
		return "sqlite"
	}

	// Default to postgres for host:port style strings
	return "postgres"
}

// GetSQLDriverName maps a detected driver type to the name registered with
// database/sql
func GetSQLDriverName(driverType string) string {
	switch driverType {
	case "sqlite", "sqlite3":
		return "sqlite"
	case "libsql":
		return "libsql"
	default:
		return "postgres"
	}
}

// NewDriver creates a probe driver for the given driver type. libSQL speaks
// the SQLite dialect and reuses its introspection queries.
func NewDriver(driverType string) (Driver, error) {
	switch driverType {
	case "postgres", "postgresql":
		return postgres.NewDriver(), nil
	case "sqlite", "sqlite3", "libsql":
		return sqlite.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driverType)
	}
}

// Open connects to the target described by the connection string and verifies
// the connection with a ping before returning it.
func Open(connString string) (*sql.DB, Driver, error) {
	driverType := DetectDriver(connString)
	driver, err := NewDriver(driverType)
	if err != nil {
		return nil, nil, err
	}

	dsn := connString
	if driverType == "sqlite" {
		dsn = strings.TrimPrefix(dsn, "sqlite://")
	}

	db, err := sql.Open(GetSQLDriverName(driverType), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, driver, nil
}

// Redact strips credentials from a connection string so it can appear in
// logs and error messages.
func Redact(connString string) string {
	u, err := url.Parse(connString)
	if err != nil || u.User == nil {
		return connString
	}
	return u.Redacted()
}
