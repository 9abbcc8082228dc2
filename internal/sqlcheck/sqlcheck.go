package sqlcheck

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/dbmaint/dbmaint/internal/ops"
)

// Issue is one problem found in an operation's SQL
type Issue struct {
	OperationID string `json:"operation_id"`
	Statement   int    `json:"statement"` // 1-based; 0 for operation-level issues
	Severity    string `json:"severity"`  // "error" or "warning"
	Message     string `json:"message"`
	Code        string `json:"code,omitempty"`
}

// Report collects all issues for a registry
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// CheckRegistry lints every operation in the registry
func CheckRegistry(r *ops.Registry) Report {
	report := Report{Valid: true, Issues: []Issue{}}
	for _, op := range r.All() {
		report.Issues = append(report.Issues, CheckOperation(op)...)
	}
	for _, issue := range report.Issues {
		if issue.Severity == "error" {
			report.Valid = false
			break
		}
	}
	return report
}

// CheckOperation lints one operation: statement bodies must parse as
// PostgreSQL, projection and probe queries must parse, and destructive
// statements must carry their guards.
func CheckOperation(op ops.Operation) []Issue {
	var issues []Issue

	for i, stmt := range op.Statements {
		issues = append(issues, checkStatement(op, i+1, stmt)...)
	}
	if op.ProjectionSQL != "" {
		issues = append(issues, checkSyntaxOnly(op, 0, op.ProjectionSQL)...)
	}
	if op.QuerySQL != "" {
		issues = append(issues, checkSyntaxOnly(op, 0, op.QuerySQL)...)
	}

	return issues
}

func checkSyntaxOnly(op ops.Operation, position int, sql string) []Issue {
	if _, err := pg_query.Parse(sql); err != nil {
		return []Issue{{
			OperationID: op.ID,
			Statement:   position,
			Severity:    "error",
			Message:     fmt.Sprintf("SQL syntax error: %v", err),
			Code:        "syntax_error",
		}}
	}
	return nil
}

func checkStatement(op ops.Operation, position int, sql string) []Issue {
	tree, err := pg_query.Parse(sql)
	if err != nil {
		return []Issue{{
			OperationID: op.ID,
			Statement:   position,
			Severity:    "error",
			Message:     fmt.Sprintf("SQL syntax error: %v", err),
			Code:        "syntax_error",
		}}
	}

	var issues []Issue
	for _, raw := range tree.Stmts {
		if raw.Stmt == nil {
			continue
		}
		issues = append(issues, detectDangerousStatement(op, position, raw.Stmt)...)
	}
	return issues
}

// detectDangerousStatement flags operations that are syntactically valid but
// operationally risky against a live database
func detectDangerousStatement(op ops.Operation, position int, stmt *pg_query.Node) []Issue {
	var issues []Issue

	add := func(severity, message, code string) {
		issues = append(issues, Issue{
			OperationID: op.ID,
			Statement:   position,
			Severity:    severity,
			Message:     message,
			Code:        code,
		})
	}

	switch node := stmt.Node.(type) {
	case *pg_query.Node_DeleteStmt:
		if node.DeleteStmt.WhereClause == nil {
			add("error",
				"DELETE without a WHERE clause removes every row in the table",
				"unguarded_delete")
		}

	case *pg_query.Node_UpdateStmt:
		if node.UpdateStmt.WhereClause == nil {
			add("error",
				"UPDATE without a WHERE clause rewrites every row in the table",
				"unguarded_update")
		}

	case *pg_query.Node_TruncateStmt:
		add("error",
			"TRUNCATE deletes all rows and cannot be projected with a row count first",
			"truncate")

	case *pg_query.Node_DropStmt:
		if node.DropStmt.RemoveType == pg_query.ObjectType_OBJECT_TABLE {
			add("error",
				"DROP TABLE is destructive and irreversible; this registry only carries guarded row deletes and additive schema patches",
				"drop_table")
		}
	}

	return issues
}
