package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// OutboxRepository provides access to events awaiting publication.
type OutboxRepository interface {
	ClaimBatch(ctx context.Context, limit int) ([]model.Event, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
	Release(ctx context.Context, id uuid.UUID) error
}
