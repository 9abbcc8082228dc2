package ops

import "fmt"

// Registry holds the static set of operations the runner can execute. The
// statement bodies stick to the SQL subset shared by PostgreSQL and SQLite so
// an operation can be rehearsed against a local SQLite copy before touching
// production.
type Registry struct {
	byID  map[string]Operation
	order []string
}

// NewRegistry builds the registry with the built-in operations
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]Operation)}

	builtins := []Operation{
		{
			ID:          "add-prompt-type-column",
			Description: "Add the prompt_type column to prompts",
			Class:       ClassRequiresGuard,
			Precheck: &Precheck{
				Kind:   PrecheckColumnMissing,
				Table:  "prompts",
				Column: "prompt_type",
			},
			Statements: []string{
				"ALTER TABLE prompts ADD COLUMN prompt_type text NOT NULL DEFAULT 'reading'",
			},
		},
		{
			ID:          "create-prompt-reports-table",
			Description: "Create the prompt_reports table for user-flagged prompts",
			Class:       ClassSafeToRerun,
			Precheck: &Precheck{
				Kind:            PrecheckTableMissing,
				Table:           "prompt_reports",
				ExpectedColumns: []string{"id", "prompt_id", "reason", "created_at"},
			},
			Statements: []string{
				`CREATE TABLE prompt_reports (
	id integer PRIMARY KEY,
	prompt_id integer NOT NULL,
	reason text NOT NULL,
	created_at timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
			},
		},
		{
			ID:          "create-reviews-card-id-index",
			Description: "Index reviews by card_id to speed up the queue query",
			Class:       ClassSafeToRerun,
			Precheck: &Precheck{
				Kind:  PrecheckIndexMissing,
				Table: "reviews",
				Index: "reviews_card_id_idx",
			},
			Statements: []string{
				"CREATE INDEX reviews_card_id_idx ON reviews (card_id)",
			},
		},
		{
			ID:          "delete-dojo-decks",
			Description: "Delete decks imported from the retired dojo source",
			Class:       ClassRequiresGuard,
			Precheck: &Precheck{
				Kind: PrecheckRowsMatch,
			},
			ProjectionSQL: "SELECT COUNT(*) FROM decks WHERE source = 'dojo'",
			Statements: []string{
				"DELETE FROM decks WHERE source = 'dojo'",
			},
		},
		{
			ID:          "delete-orphaned-reviews",
			Description: "Delete reviews whose card no longer exists",
			Class:       ClassRequiresGuard,
			Precheck: &Precheck{
				Kind: PrecheckRowsMatch,
			},
			ProjectionSQL: "SELECT COUNT(*) FROM reviews WHERE card_id NOT IN (SELECT id FROM cards)",
			Statements: []string{
				"DELETE FROM reviews WHERE card_id NOT IN (SELECT id FROM cards)",
			},
		},
		{
			ID:          "ping",
			Description: "Check that the database answers at all",
			Class:       ClassReadOnly,
			QuerySQL:    "SELECT 1",
		},
		{
			ID:          "queue-depth",
			Description: "Count entries waiting in the review queue",
			Class:       ClassReadOnly,
			QuerySQL:    "SELECT COUNT(*) FROM review_queue",
		},
		{
			ID:          "deck-count",
			Description: "Count decks",
			Class:       ClassReadOnly,
			QuerySQL:    "SELECT COUNT(*) FROM decks",
		},
	}

	for _, op := range builtins {
		if err := r.Register(op); err != nil {
			// Built-ins are fixed at compile time; a bad one is a programming error
			panic(err)
		}
	}

	return r
}

// Register adds an operation after validating its shape
func (r *Registry) Register(op Operation) error {
	if op.ID == "" {
		return fmt.Errorf("operation is missing an id")
	}
	if _, exists := r.byID[op.ID]; exists {
		return fmt.Errorf("duplicate operation id %q", op.ID)
	}

	switch op.Class {
	case ClassReadOnly:
		if op.QuerySQL == "" {
			return fmt.Errorf("read-only operation %q is missing query_sql", op.ID)
		}
		if len(op.Statements) > 0 {
			return fmt.Errorf("read-only operation %q must not declare statements", op.ID)
		}
	case ClassSafeToRerun, ClassRequiresGuard:
		if len(op.Statements) == 0 {
			return fmt.Errorf("operation %q has no statements", op.ID)
		}
		if op.Precheck == nil {
			return fmt.Errorf("operation %q has no prerequisite check", op.ID)
		}
		if op.Precheck.Kind == PrecheckRowsMatch && op.ProjectionSQL == "" {
			return fmt.Errorf("operation %q uses a rows-match precheck but has no projection_sql", op.ID)
		}
	default:
		return fmt.Errorf("operation %q has unknown class %q", op.ID, op.Class)
	}

	r.byID[op.ID] = op
	r.order = append(r.order, op.ID)
	return nil
}

// Get looks up an operation by id
func (r *Registry) Get(id string) (Operation, bool) {
	op, ok := r.byID[id]
	return op, ok
}

// All returns every operation in registration order
func (r *Registry) All() []Operation {
	out := make([]Operation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// ReadOnly returns the diagnostic subset in registration order
func (r *Registry) ReadOnly() []Operation {
	var out []Operation
	for _, op := range r.All() {
		if op.ReadOnly() {
			out = append(out, op)
		}
	}
	return out
}
