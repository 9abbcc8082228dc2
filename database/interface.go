package database

import (
	"context"
	"database/sql"
)

// Driver answers existence questions about schema objects. The operation
// runner uses these probes to decide whether an operation's effect is
// already present before touching anything.
type Driver interface {
	// Name returns the database driver name (e.g., "postgres", "sqlite")
	Name() string

	// TableExists reports whether a table with the given name exists
	TableExists(ctx context.Context, db *sql.DB, table string) (bool, error)

	// ColumnExists reports whether the table has a column with the given name
	ColumnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error)

	// IndexExists reports whether the table has an index with the given name
	IndexExists(ctx context.Context, db *sql.DB, table, index string) (bool, error)

	// TableColumns returns the table's column names in ordinal order
	TableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error)
}
