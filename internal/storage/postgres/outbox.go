package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// claimTimeout is how long a claimed event may stay unpublished before
// another relay instance is allowed to pick it up again.
const claimTimeout = "5 minutes"

// enqueue stores event in the outbox as part of tx.
func enqueue(ctx context.Context, tx pgx.Tx, eventType model.EventType, aggregateID string, payload any) error {
	event, err := model.NewEvent(eventType, aggregateID, payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	if _, err := tx.Exec(ctx, `
        INSERT INTO outbox_events (id, aggregate_id, event_type, payload, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, event.ID, event.AggregateID, string(event.Type), []byte(event.Payload), event.CreatedAt); err != nil {
		return fmt.Errorf("enqueue %s event: %w", eventType, err)
	}
	return nil
}

// ClaimBatch marks up to limit pending events as processing and returns them.
// Concurrent relays skip rows locked by each other.
func (r *outboxRepository) ClaimBatch(ctx context.Context, limit int) ([]model.Event, error) {
	var events []model.Event

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
            SELECT id, aggregate_id, event_type, payload, created_at, attempts
            FROM outbox_events
            WHERE status = 'pending'
               OR (status = 'processing' AND claimed_at < NOW() - INTERVAL '`+claimTimeout+`')
            ORDER BY created_at
            LIMIT $1
            FOR UPDATE SKIP LOCKED
        `, limit)
		if err != nil {
			return err
		}

		for rows.Next() {
			var (
				event     model.Event
				eventType string
				payload   []byte
			)
			if err := rows.Scan(&event.ID, &event.AggregateID, &eventType, &payload, &event.CreatedAt, &event.Attempts); err != nil {
				rows.Close()
				return err
			}
			event.Type = model.EventType(eventType)
			event.Payload = payload
			events = append(events, event)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for i := range events {
			if _, err := tx.Exec(ctx, `
                UPDATE outbox_events
                SET status = 'processing', attempts = attempts + 1, claimed_at = NOW()
                WHERE id = $1
            `, events[i].ID); err != nil {
				return err
			}
			events[i].Attempts++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("claim outbox batch: %w", err)
	}

	return events, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	if _, err := r.storage.pool.Exec(ctx, `
        UPDATE outbox_events SET status = 'published', published_at = NOW()
        WHERE id = $1
    `, id); err != nil {
		return fmt.Errorf("mark event published: %w", err)
	}
	return nil
}

// Release returns a claimed event to the queue after a failed publication.
func (r *outboxRepository) Release(ctx context.Context, id uuid.UUID) error {
	if _, err := r.storage.pool.Exec(ctx, `
        UPDATE outbox_events SET status = 'pending', claimed_at = NULL
        WHERE id = $1
    `, id); err != nil {
		return fmt.Errorf("release event: %w", err)
	}
	return nil
}
