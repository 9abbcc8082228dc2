package ops

// Class is an operation's idempotency class
type Class string

const (
	// ClassReadOnly operations only query; they are never gated by dry-run
	ClassReadOnly Class = "read-only"
	// ClassSafeToRerun operations are harmless to repeat (CREATE IF NOT EXISTS style)
	ClassSafeToRerun Class = "safe-to-rerun"
	// ClassRequiresGuard operations mutate data or schema and rely on their
	// precheck to stay idempotent
	ClassRequiresGuard Class = "requires-guard"
)

// Status is the outcome of running an operation
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped-already-applied"
	StatusDryRun  Status = "dry-run-only"
	StatusFailed  Status = "failed"
)

// PrecheckKind identifies the read-only probe that decides whether an
// operation's effect is already present
type PrecheckKind string

const (
	// PrecheckColumnMissing runs the operation only if the column is absent
	PrecheckColumnMissing PrecheckKind = "column-missing"
	// PrecheckTableMissing runs the operation only if the table is absent
	PrecheckTableMissing PrecheckKind = "table-missing"
	// PrecheckIndexMissing runs the operation only if the index is absent
	PrecheckIndexMissing PrecheckKind = "index-missing"
	// PrecheckRowsMatch runs the operation only if the projection query
	// reports at least one matching row
	PrecheckRowsMatch PrecheckKind = "rows-match"
)

// Precheck describes an operation's prerequisite check
type Precheck struct {
	Kind   PrecheckKind `json:"kind"`
	Table  string       `json:"table,omitempty"`
	Column string       `json:"column,omitempty"`
	Index  string       `json:"index,omitempty"`
	// ExpectedColumns lets a table-missing precheck tell "already created by
	// this operation" apart from an unrelated table with the same name
	ExpectedColumns []string `json:"expected_columns,omitempty"`
}

// Operation is a named, idempotent administrative action against the database
type Operation struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Class       Class     `json:"class"`
	Precheck    *Precheck `json:"precheck,omitempty"`

	// Statements are executed in order inside a single transaction
	Statements []string `json:"statements,omitempty"`

	// ProjectionSQL counts the rows Statements would touch. Required for
	// destructive operations; it backs both dry-run and the confirmation
	// prompt.
	ProjectionSQL string `json:"projection_sql,omitempty"`

	// QuerySQL is the probe body for read-only operations
	QuerySQL string `json:"query_sql,omitempty"`
}

// ReadOnly reports whether the operation performs no mutation
func (op Operation) ReadOnly() bool {
	return op.Class == ClassReadOnly
}

// Destructive reports whether the operation deletes or rewrites rows and must
// report its projected effect before mutating
func (op Operation) Destructive() bool {
	return op.Class == ClassRequiresGuard && op.ProjectionSQL != ""
}

// Result is the outcome of one operation invocation
type Result struct {
	OperationID  string `json:"operation_id"`
	Status       Status `json:"status"`
	RowsAffected int64  `json:"rows_affected"`
	Output       string `json:"output,omitempty"`
}
