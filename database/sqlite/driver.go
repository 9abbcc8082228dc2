package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Driver implements existence probes for SQLite (and libSQL, which speaks the
// same dialect) using sqlite_master and PRAGMA queries
type Driver struct{}

// NewDriver creates a new SQLite driver
func NewDriver() *Driver {
	return &Driver{}
}

// Name returns the database driver name
func (d *Driver) Name() string {
	return "sqlite"
}

// TableExists reports whether a table with the given name exists
func (d *Driver) TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM sqlite_master
			WHERE type = 'table'
			AND name = ?
		)
	`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}

// ColumnExists reports whether the table has the given column
func (d *Driver) ColumnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	columns, err := d.TableColumns(ctx, db, table)
	if err != nil {
		return false, err
	}
	for _, name := range columns {
		if name == column {
			return true, nil
		}
	}
	return false, nil
}

// IndexExists reports whether the table has an index with the given name
func (d *Driver) IndexExists(ctx context.Context, db *sql.DB, table, index string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM sqlite_master
			WHERE type = 'index'
			AND tbl_name = ?
			AND name = ?
		)
	`, table, index).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check index %s on %s: %w", index, table, err)
	}
	return exists, nil
}

// TableColumns returns the table's column names in ordinal order
func (d *Driver) TableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	// PRAGMA doesn't support bound parameters
	query := fmt.Sprintf("PRAGMA table_info(%s)", table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns for table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		// PRAGMA table_info returns: cid, name, type, notnull, dflt_value, pk
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns = append(columns, name)
	}

	return columns, rows.Err()
}
