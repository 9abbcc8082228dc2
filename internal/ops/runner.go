package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dbmaint/dbmaint/database"
)

// Runner executes one operation at a time against a single target. It never
// retries: a failed operation is re-invoked by the operator once the
// underlying cause is fixed.
type Runner struct {
	db       *sql.DB
	driver   database.Driver
	registry *Registry
	target   string
}

// NewRunner wires a runner to an open connection. target is a redacted
// description of the endpoint used in error messages.
func NewRunner(db *sql.DB, driver database.Driver, registry *Registry, target string) *Runner {
	return &Runner{db: db, driver: driver, registry: registry, target: target}
}

// RunOptions control a single invocation
type RunOptions struct {
	// DryRun restricts the invocation to read-only projection queries
	DryRun bool
}

// Run resolves the operation, evaluates its prerequisite check, and either
// reports the projected effect (dry-run) or executes the statements in one
// transaction.
func (r *Runner) Run(ctx context.Context, id string, opts RunOptions) (*Result, error) {
	op, ok := r.registry.Get(id)
	if !ok {
		return nil, &Error{Kind: UnknownOperation, Op: id, Target: r.target,
			Err: fmt.Errorf("not in the operation registry; run `dbmaint list`")}
	}

	// Diagnostic operations perform no mutation, so dry-run never gates them
	if op.ReadOnly() {
		return r.runQuery(ctx, op)
	}

	done, err := r.precheck(ctx, op)
	if err != nil {
		return nil, err
	}
	if done {
		return &Result{
			OperationID: op.ID,
			Status:      StatusSkipped,
			Output:      "effect already present, no statements executed",
		}, nil
	}

	if opts.DryRun {
		return r.dryRun(ctx, op)
	}

	return r.execute(ctx, op)
}

// Project returns the number of rows a destructive operation would affect
func (r *Runner) Project(ctx context.Context, op Operation) (int64, error) {
	n, err := r.project(ctx, op)
	if err != nil {
		return 0, &Error{Kind: DryRunProjectionFailed, Op: op.ID, Target: r.target, Err: err}
	}
	return n, nil
}

func (r *Runner) project(ctx context.Context, op Operation) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, op.ProjectionSQL).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Runner) runQuery(ctx context.Context, op Operation) (*Result, error) {
	var value any
	if err := r.db.QueryRowContext(ctx, op.QuerySQL).Scan(&value); err != nil {
		return nil, &Error{Kind: ExecutionFailed, Op: op.ID, Target: r.target, Err: err}
	}
	if b, ok := value.([]byte); ok {
		value = string(b)
	}
	return &Result{
		OperationID: op.ID,
		Status:      StatusApplied,
		Output:      fmt.Sprintf("%v", value),
	}, nil
}

// precheck reports whether the operation's effect is already present. A state
// that matches neither "applied" nor "not applied" surfaces as AmbiguousState
// and is left for manual review.
func (r *Runner) precheck(ctx context.Context, op Operation) (bool, error) {
	pre := op.Precheck
	if pre == nil {
		return false, nil
	}

	fail := func(err error) (bool, error) {
		return false, &Error{Kind: PrerequisiteCheckFailed, Op: op.ID, Target: r.target, Err: err}
	}
	ambiguous := func(format string, args ...any) (bool, error) {
		return false, &Error{Kind: AmbiguousState, Op: op.ID, Target: r.target,
			Err: fmt.Errorf(format, args...)}
	}

	switch pre.Kind {
	case PrecheckColumnMissing:
		tableExists, err := r.driver.TableExists(ctx, r.db, pre.Table)
		if err != nil {
			return fail(err)
		}
		if !tableExists {
			return ambiguous("table %q does not exist; cannot tell whether the patch applies here", pre.Table)
		}
		columnExists, err := r.driver.ColumnExists(ctx, r.db, pre.Table, pre.Column)
		if err != nil {
			return fail(err)
		}
		return columnExists, nil

	case PrecheckTableMissing:
		tableExists, err := r.driver.TableExists(ctx, r.db, pre.Table)
		if err != nil {
			return fail(err)
		}
		if !tableExists {
			return false, nil
		}
		if len(pre.ExpectedColumns) == 0 {
			return true, nil
		}
		columns, err := r.driver.TableColumns(ctx, r.db, pre.Table)
		if err != nil {
			return fail(err)
		}
		if sameColumns(columns, pre.ExpectedColumns) {
			return true, nil
		}
		return ambiguous("table %q exists but its columns (%s) do not match the expected shape (%s); review manually",
			pre.Table, strings.Join(columns, ", "), strings.Join(pre.ExpectedColumns, ", "))

	case PrecheckIndexMissing:
		tableExists, err := r.driver.TableExists(ctx, r.db, pre.Table)
		if err != nil {
			return fail(err)
		}
		if !tableExists {
			return ambiguous("table %q does not exist; cannot create an index on it", pre.Table)
		}
		indexExists, err := r.driver.IndexExists(ctx, r.db, pre.Table, pre.Index)
		if err != nil {
			return fail(err)
		}
		return indexExists, nil

	case PrecheckRowsMatch:
		n, err := r.project(ctx, op)
		if err != nil {
			return fail(err)
		}
		return n == 0, nil
	}

	return fail(fmt.Errorf("unknown precheck kind %q", pre.Kind))
}

func (r *Runner) dryRun(ctx context.Context, op Operation) (*Result, error) {
	result := &Result{OperationID: op.ID, Status: StatusDryRun}

	if op.ProjectionSQL != "" {
		n, err := r.Project(ctx, op)
		if err != nil {
			return nil, err
		}
		result.RowsAffected = n
		result.Output = fmt.Sprintf("would affect %d rows", n)
		return result, nil
	}

	result.Output = fmt.Sprintf("would execute %d statement(s):\n  %s",
		len(op.Statements), strings.Join(op.Statements, "\n  "))
	return result, nil
}

// execute runs all statements inside a single transaction: commit only on
// full success, rollback on any failure.
func (r *Runner) execute(ctx context.Context, op Operation) (*Result, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &Error{Kind: ConnectionFailure, Op: op.ID, Target: r.target,
			Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	var total int64
	for i, stmt := range op.Statements {
		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return nil, &Error{Kind: ExecutionFailed, Op: op.ID, Target: r.target,
				Err: fmt.Errorf("statement %d of %d: %w", i+1, len(op.Statements), err)}
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, &Error{Kind: ExecutionFailed, Op: op.ID, Target: r.target,
			Err: fmt.Errorf("failed to commit: %w", err)}
	}

	return &Result{
		OperationID:  op.ID,
		Status:       StatusApplied,
		RowsAffected: total,
	}, nil
}

// sameColumns compares column name sets ignoring order
func sameColumns(have, want []string) bool {
	if len(have) != len(want) {
		return false
	}
	seen := make(map[string]bool, len(have))
	for _, name := range have {
		seen[name] = true
	}
	for _, name := range want {
		if !seen[name] {
			return false
		}
	}
	return true
}
