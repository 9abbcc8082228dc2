package sqlcheck

import (
	"testing"

	"github.com/dbmaint/dbmaint/internal/ops"
)

func TestCheckRegistry_BuiltinsAreClean(t *testing.T) {
	report := CheckRegistry(ops.NewRegistry())
	if !report.Valid {
		t.Errorf("expected the built-in registry to be clean, got %+v", report.Issues)
	}
	if len(report.Issues) != 0 {
		for _, issue := range report.Issues {
			t.Logf("issue: %+v", issue)
		}
		t.Errorf("expected no issues, got %d", len(report.Issues))
	}
}

func TestCheckOperation_UnguardedDelete(t *testing.T) {
	op := ops.Operation{
		ID:            "wipe-decks",
		Class:         ops.ClassRequiresGuard,
		Precheck:      &ops.Precheck{Kind: ops.PrecheckRowsMatch},
		ProjectionSQL: "SELECT COUNT(*) FROM decks",
		Statements:    []string{"DELETE FROM decks"},
	}

	issues := CheckOperation(op)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %+v", len(issues), issues)
	}
	if issues[0].Code != "unguarded_delete" {
		t.Errorf("expected unguarded_delete, got %q", issues[0].Code)
	}
	if issues[0].Statement != 1 {
		t.Errorf("expected statement position 1, got %d", issues[0].Statement)
	}
	if issues[0].Severity != "error" {
		t.Errorf("expected severity error, got %q", issues[0].Severity)
	}
}

func TestCheckOperation_UnguardedUpdate(t *testing.T) {
	op := ops.Operation{
		ID:         "reset-sources",
		Statements: []string{"UPDATE decks SET source = 'user'"},
	}

	issues := CheckOperation(op)
	if len(issues) != 1 || issues[0].Code != "unguarded_update" {
		t.Fatalf("expected unguarded_update, got %+v", issues)
	}
}

func TestCheckOperation_GuardedDeleteIsClean(t *testing.T) {
	op := ops.Operation{
		ID:         "delete-dojo-decks",
		Statements: []string{"DELETE FROM decks WHERE source = 'dojo'"},
	}

	if issues := CheckOperation(op); len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}

func TestCheckOperation_Truncate(t *testing.T) {
	op := ops.Operation{
		ID:         "truncate-reviews",
		Statements: []string{"TRUNCATE reviews"},
	}

	issues := CheckOperation(op)
	if len(issues) != 1 || issues[0].Code != "truncate" {
		t.Fatalf("expected truncate issue, got %+v", issues)
	}
}

func TestCheckOperation_DropTable(t *testing.T) {
	op := ops.Operation{
		ID:         "drop-decks",
		Statements: []string{"DROP TABLE decks"},
	}

	issues := CheckOperation(op)
	if len(issues) != 1 || issues[0].Code != "drop_table" {
		t.Fatalf("expected drop_table issue, got %+v", issues)
	}
}

func TestCheckOperation_SyntaxError(t *testing.T) {
	op := ops.Operation{
		ID:         "broken",
		Statements: []string{"DELEET FROM decks WHERE source = 'dojo'"},
	}

	issues := CheckOperation(op)
	if len(issues) != 1 || issues[0].Code != "syntax_error" {
		t.Fatalf("expected syntax_error, got %+v", issues)
	}
}

func TestCheckOperation_ProjectionSyntaxChecked(t *testing.T) {
	op := ops.Operation{
		ID:            "bad-projection",
		Statements:    []string{"DELETE FROM decks WHERE source = 'dojo'"},
		ProjectionSQL: "SELECT COUNT(* FROM decks",
	}

	issues := CheckOperation(op)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %+v", issues)
	}
	if issues[0].Statement != 0 {
		t.Errorf("projection issues are operation-level, got statement %d", issues[0].Statement)
	}
}

func TestCheckRegistry_InvalidRegistryIsNotValid(t *testing.T) {
	r := ops.NewRegistry()
	err := r.Register(ops.Operation{
		ID:          "wipe-queue",
		Description: "Unguarded delete for the lint to catch",
		Class:       ops.ClassSafeToRerun,
		Precheck:    &ops.Precheck{Kind: ops.PrecheckTableMissing, Table: "review_queue"},
		Statements:  []string{"DELETE FROM review_queue"},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	report := CheckRegistry(r)
	if report.Valid {
		t.Error("expected the report to be invalid")
	}
}
