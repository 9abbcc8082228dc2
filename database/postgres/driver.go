package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Driver implements existence probes for PostgreSQL using information_schema
type Driver struct{}

// NewDriver creates a new PostgreSQL driver
func NewDriver() *Driver {
	return &Driver{}
}

// Name returns the database driver name
func (d *Driver) Name() string {
	return "postgres"
}

// TableExists reports whether a base table exists in the current schema
func (d *Driver) TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = current_schema()
			AND table_type = 'BASE TABLE'
			AND table_name = $1
		)
	`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}

// ColumnExists reports whether the table has the given column
func (d *Driver) ColumnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.columns
			WHERE table_schema = current_schema()
			AND table_name = $1
			AND column_name = $2
		)
	`, table, column).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check column %s.%s: %w", table, column, err)
	}
	return exists, nil
}

// IndexExists reports whether the table has an index with the given name
func (d *Driver) IndexExists(ctx context.Context, db *sql.DB, table, index string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM pg_indexes
			WHERE schemaname = current_schema()
			AND tablename = $1
			AND indexname = $2
		)
	`, table, index).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check index %s on %s: %w", index, table, err)
	}
	return exists, nil
}

// TableColumns returns the table's column names in ordinal order
func (d *Driver) TableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		AND table_name = $1
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns for table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns = append(columns, name)
	}

	return columns, rows.Err()
}
