package sqlite

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	// :memory: gives every pooled connection its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	stmts := []string{
		`CREATE TABLE decks (id integer PRIMARY KEY, name text NOT NULL, source text NOT NULL DEFAULT 'user')`,
		`CREATE INDEX decks_source_idx ON decks (source)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create test schema: %v", err)
		}
	}

	return db
}

func TestTableExists(t *testing.T) {
	db := openTestDB(t)
	driver := NewDriver()
	ctx := context.Background()

	exists, err := driver.TableExists(ctx, db, "decks")
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if !exists {
		t.Error("expected decks to exist")
	}

	exists, err = driver.TableExists(ctx, db, "nope")
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if exists {
		t.Error("expected nope to not exist")
	}
}

func TestColumnExists(t *testing.T) {
	db := openTestDB(t)
	driver := NewDriver()
	ctx := context.Background()

	exists, err := driver.ColumnExists(ctx, db, "decks", "source")
	if err != nil {
		t.Fatalf("ColumnExists failed: %v", err)
	}
	if !exists {
		t.Error("expected decks.source to exist")
	}

	exists, err = driver.ColumnExists(ctx, db, "decks", "archived_at")
	if err != nil {
		t.Fatalf("ColumnExists failed: %v", err)
	}
	if exists {
		t.Error("expected decks.archived_at to not exist")
	}
}

func TestIndexExists(t *testing.T) {
	db := openTestDB(t)
	driver := NewDriver()
	ctx := context.Background()

	exists, err := driver.IndexExists(ctx, db, "decks", "decks_source_idx")
	if err != nil {
		t.Fatalf("IndexExists failed: %v", err)
	}
	if !exists {
		t.Error("expected decks_source_idx to exist")
	}

	exists, err = driver.IndexExists(ctx, db, "decks", "decks_name_idx")
	if err != nil {
		t.Fatalf("IndexExists failed: %v", err)
	}
	if exists {
		t.Error("expected decks_name_idx to not exist")
	}
}

func TestTableColumns(t *testing.T) {
	db := openTestDB(t)
	driver := NewDriver()

	columns, err := driver.TableColumns(context.Background(), db, "decks")
	if err != nil {
		t.Fatalf("TableColumns failed: %v", err)
	}

	expected := []string{"id", "name", "source"}
	if !reflect.DeepEqual(columns, expected) {
		t.Errorf("expected columns %v, got %v", expected, columns)
	}
}

func TestTableColumns_MissingTable(t *testing.T) {
	db := openTestDB(t)
	driver := NewDriver()

	columns, err := driver.TableColumns(context.Background(), db, "nope")
	if err != nil {
		t.Fatalf("TableColumns failed: %v", err)
	}
	if len(columns) != 0 {
		t.Errorf("expected no columns for a missing table, got %v", columns)
	}
}
