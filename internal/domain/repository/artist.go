package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// ArtistRepository manages artist onboarding state and commission.
type ArtistRepository interface {
	Get(ctx context.Context, artistID int64) (*model.Artist, error)
	List(ctx context.Context) ([]model.Artist, error)
	// UpdateStatus applies change only if the stored status still equals change.Expected.
	UpdateStatus(ctx context.Context, change model.ArtistStatusChange) (*model.Artist, error)
	SetCommissionRate(ctx context.Context, artistID int64, rate decimal.Decimal) (*model.Artist, error)
}
