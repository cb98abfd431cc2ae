package syncqueue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Item states. An item is pending until a flush either syncs it or the
// server rejects it.
const (
	StatePending = "pending"
	StateSynced  = "synced"
	StateFailed  = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS pending_events (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id         TEXT NOT NULL,
    idempotency_key TEXT NOT NULL UNIQUE,
    payload         TEXT NOT NULL,
    state           TEXT NOT NULL DEFAULT 'pending',
    fail_reason     TEXT,
    created_at      TIMESTAMP NOT NULL,
    resolved_at     TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_pending_events_state ON pending_events (state, id);
`

// Item is one queued event capture awaiting upload.
type Item struct {
	ID             int64
	GameID         uuid.UUID
	IdempotencyKey string
	Payload        json.RawMessage
	State          string
	CreatedAt      time.Time
}

// Store is a durable FIFO queue backed by SQLite. A single store serves one
// capture device; writes are serialized by limiting the pool to one
// connection, which SQLite requires anyway.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the queue database at path and migrates it.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate queue database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends an item to the tail of the queue.
func (s *Store) Insert(ctx context.Context, gameID uuid.UUID, idempotencyKey string, payload json.RawMessage, now time.Time) (*Item, error) {
	const query = `
		INSERT INTO pending_events (game_id, idempotency_key, payload, state, created_at)
		VALUES (?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query, gameID.String(), idempotencyKey, string(payload), StatePending, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read queued item id: %w", err)
	}
	return &Item{
		ID:             id,
		GameID:         gameID,
		IdempotencyKey: idempotencyKey,
		Payload:        payload,
		State:          StatePending,
		CreatedAt:      now.UTC(),
	}, nil
}

// ListPending returns pending items oldest first.
func (s *Store) ListPending(ctx context.Context) ([]Item, error) {
	const query = `
		SELECT id, game_id, idempotency_key, payload, created_at
		FROM pending_events
		WHERE state = ?
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, StatePending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item    Item
			gameID  string
			payload string
		)
		if err := rows.Scan(&item.ID, &gameID, &item.IdempotencyKey, &payload, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending item: %w", err)
		}
		item.GameID, err = uuid.Parse(gameID)
		if err != nil {
			return nil, fmt.Errorf("corrupt game id on item %d: %w", item.ID, err)
		}
		item.Payload = json.RawMessage(payload)
		item.State = StatePending
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountPending returns the number of items still awaiting upload.
func (s *Store) CountPending(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_events WHERE state = ?`, StatePending).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending items: %w", err)
	}
	return n, nil
}

// MarkSynced records a successful upload.
func (s *Store) MarkSynced(ctx context.Context, id int64, now time.Time) error {
	return s.resolve(ctx, id, StateSynced, "", now)
}

// MarkFailed records a server rejection. The item leaves the pending set so
// later items can still flush.
func (s *Store) MarkFailed(ctx context.Context, id int64, reason string, now time.Time) error {
	return s.resolve(ctx, id, StateFailed, reason, now)
}

func (s *Store) resolve(ctx context.Context, id int64, state, reason string, now time.Time) error {
	const query = `
		UPDATE pending_events
		SET state = ?, fail_reason = NULLIF(?, ''), resolved_at = ?
		WHERE id = ? AND state = ?`

	res, err := s.db.ExecContext(ctx, query, state, reason, now.UTC(), id, StatePending)
	if err != nil {
		return fmt.Errorf("failed to mark item %d %s: %w", id, state, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("item %d is not pending", id)
	}
	return nil
}

// DeleteNewestPending removes the most recently enqueued pending item and
// returns it. Returns ErrNothingPending when the pending set is empty.
func (s *Store) DeleteNewestPending(ctx context.Context) (*Item, error) {
	const query = `
		DELETE FROM pending_events
		WHERE id = (SELECT MAX(id) FROM pending_events WHERE state = ?)
		RETURNING id, game_id, idempotency_key, payload, created_at`

	var (
		item    Item
		gameID  string
		payload string
	)
	err := s.db.QueryRowContext(ctx, query, StatePending).
		Scan(&item.ID, &gameID, &item.IdempotencyKey, &payload, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNothingPending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to undo newest pending item: %w", err)
	}
	item.GameID, err = uuid.Parse(gameID)
	if err != nil {
		return nil, fmt.Errorf("corrupt game id on item %d: %w", item.ID, err)
	}
	item.Payload = json.RawMessage(payload)
	item.State = StatePending
	return &item, nil
}
