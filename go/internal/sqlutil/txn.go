package sqlutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// DBTX is the subset of database/sql satisfied by both *sql.DB and *sql.Tx.
// Repositories take it per call so the same query code runs inside or
// outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Runner executes functions inside transactions against one database.
type Runner struct {
	DB *sql.DB
}

// Run executes fn inside a *sql.Tx.
// If fn returns an error the tx rolls back, else it commits.
func (r Runner) Run(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil) // BEGIN
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback() // ROLLBACK
		return err
	}
	return tx.Commit() // COMMIT
}

// RunLocked is Run plus a row lock on the game taken before fn. All ledger
// writers for one game serialize on this lock; writers for different games
// do not contend.
func (r Runner) RunLocked(ctx context.Context, gameID uuid.UUID, fn func(tx *sql.Tx) error) error {
	return r.Run(ctx, func(tx *sql.Tx) error {
		var id uuid.UUID
		if err := tx.QueryRowContext(ctx, `SELECT id FROM games WHERE id = $1 FOR UPDATE`, gameID).Scan(&id); err != nil {
			return fmt.Errorf("failed to lock game: %w", err)
		}
		return fn(tx)
	})
}
