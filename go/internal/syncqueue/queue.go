package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/courtside/go/internal/gameevents"
)

// Sender uploads one captured event to the tracking service. A transport
// failure is reported as (or wrapped around) ErrServiceUnreachable; a server
// refusal as *RejectionError.
type Sender interface {
	Send(ctx context.Context, gameID uuid.UUID, req gameevents.RecordEventRequest) error
}

// Queue buffers event captures while the device is offline and drains them
// in FIFO order once the service is reachable again.
type Queue struct {
	store  *Store
	sender Sender
	clock  clockwork.Clock

	flushCh chan struct{}
}

// NewQueue creates a queue over an opened store.
func NewQueue(store *Store, sender Sender, clk clockwork.Clock) *Queue {
	return &Queue{
		store:   store,
		sender:  sender,
		clock:   clk,
		flushCh: make(chan struct{}, 1),
	}
}

// Enqueue durably stores a capture and nudges the flusher. The item gets a
// fresh idempotency key if the caller did not set one, so a later replayed
// flush cannot double-apply it.
func (q *Queue) Enqueue(ctx context.Context, gameID uuid.UUID, req gameevents.RecordEventRequest) (*Item, error) {
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal capture: %w", err)
	}

	item, err := q.store.Insert(ctx, gameID, req.IdempotencyKey, payload, q.clock.Now())
	if err != nil {
		return nil, err
	}

	// Non-blocking: a flush is already scheduled if the channel is full.
	select {
	case q.flushCh <- struct{}{}:
	default:
	}
	return item, nil
}

// UndoLast discards the most recent capture that has not yet been uploaded.
func (q *Queue) UndoLast(ctx context.Context) (*Item, error) {
	return q.store.DeleteNewestPending(ctx)
}

// Pending reports how many captures await upload.
func (q *Queue) Pending(ctx context.Context) (int, error) {
	return q.store.CountPending(ctx)
}

// Flush drains pending items oldest first. Each item is marked synced
// individually, so a crash mid-flush never re-orders or loses captures.
// A transport failure stops the drain with everything after it untouched;
// a server rejection marks that item failed and moves on.
func (q *Queue) Flush(ctx context.Context) error {
	items, err := q.store.ListPending(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		var req gameevents.RecordEventRequest
		if err := json.Unmarshal(item.Payload, &req); err != nil {
			// Corrupt payloads can never succeed; fail them so the
			// queue keeps moving.
			log.Error().Err(err).Int64("item_id", item.ID).Msg("dropping corrupt queued capture")
			if err := q.store.MarkFailed(ctx, item.ID, "corrupt payload", q.clock.Now()); err != nil {
				return err
			}
			continue
		}

		err := q.sender.Send(ctx, item.GameID, req)
		switch {
		case err == nil:
			if err := q.store.MarkSynced(ctx, item.ID, q.clock.Now()); err != nil {
				return err
			}

		case errors.Is(err, ErrServiceUnreachable):
			log.Warn().Err(err).Int64("item_id", item.ID).Msg("flush stopped, service unreachable")
			return err

		default:
			var rej *RejectionError
			if errors.As(err, &rej) {
				log.Warn().Err(err).Int64("item_id", item.ID).Msg("server rejected queued capture")
				if err := q.store.MarkFailed(ctx, item.ID, rej.Message, q.clock.Now()); err != nil {
					return err
				}
				continue
			}
			return err
		}
	}
	return nil
}

// Run flushes whenever Enqueue signals, until ctx is cancelled. Transport
// errors are logged and retried on the next signal.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.flushCh:
			if err := q.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Msg("background flush incomplete")
			}
		}
	}
}
