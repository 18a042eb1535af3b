package usecase

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/domain/repository"
	"github.com/polkiloo/craftmarket/internal/settlement"
)

// ArtistUseCase drives artist onboarding and commission assignment.
type ArtistUseCase struct {
	artists  repository.ArtistRepository
	products repository.ProductRepository
	engine   *settlement.Engine
	timeout  StoreTimeout
	logger   *slog.Logger
}

// NewArtistUseCase constructs ArtistUseCase.
func NewArtistUseCase(
	artists repository.ArtistRepository,
	products repository.ProductRepository,
	engine *settlement.Engine,
	timeout StoreTimeout,
	logger *slog.Logger,
) *ArtistUseCase {
	return &ArtistUseCase{artists: artists, products: products, engine: engine, timeout: timeout, logger: logger}
}

// TransitionStatus moves the artist one step through the approval workflow.
func (u *ArtistUseCase) TransitionStatus(ctx context.Context, artistID int64, next model.ArtistStatus) (*model.Artist, error) {
	if !next.Valid() {
		return nil, domainErrors.ErrInvalidStatus
	}

	artist, err := u.Artist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if !artist.Status.CanTransitionTo(next) {
		return nil, domainErrors.NewConflict(domainErrors.ErrInvalidStatusTransition, string(artist.Status))
	}

	updated, err := withStore(ctx, u.timeout, func(ctx context.Context) (*model.Artist, error) {
		return u.artists.UpdateStatus(ctx, model.ArtistStatusChange{
			ArtistID: artistID,
			Expected: artist.Status,
			Next:     next,
		})
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("artist status changed",
		slog.Int64("artist_id", artistID),
		slog.String("from", string(artist.Status)),
		slog.String("to", string(next)),
	)
	return updated, nil
}

// SetCommissionRate assigns the default commission rate for the artist's products.
func (u *ArtistUseCase) SetCommissionRate(ctx context.Context, artistID int64, rate decimal.Decimal) (*model.Artist, error) {
	if err := settlement.ValidateRate(rate); err != nil {
		return nil, err
	}

	artist, err := u.Artist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if !artist.Status.Reached(model.ArtistStatusReceivedDocuments) {
		u.logger.Warn("commission assigned before documents were received",
			slog.Int64("artist_id", artistID),
			slog.String("status", string(artist.Status)),
		)
	}

	return withStore(ctx, u.timeout, func(ctx context.Context) (*model.Artist, error) {
		return u.artists.SetCommissionRate(ctx, artistID, rate)
	})
}

// ListProduct publishes the product with a frozen commission rate. The rate
// falls back to the artist's rate and then to the platform default.
func (u *ArtistUseCase) ListProduct(ctx context.Context, productID int64, rate *decimal.Decimal) (*model.Product, error) {
	product, err := withStore(ctx, u.timeout, func(ctx context.Context) (*model.Product, error) {
		return u.products.Get(ctx, productID)
	})
	if err != nil {
		return nil, err
	}

	artist, err := u.Artist(ctx, product.ArtistID)
	if err != nil {
		return nil, err
	}
	if artist.Status != model.ArtistStatusApproved {
		return nil, &domainErrors.AccountNotApprovedError{Status: string(artist.Status)}
	}

	effective := u.engine.DefaultRate()
	switch {
	case rate != nil:
		effective = *rate
	case artist.CommissionRate != nil:
		effective = *artist.CommissionRate
	}
	if err := settlement.ValidateRate(effective); err != nil {
		return nil, err
	}

	listed, err := withStore(ctx, u.timeout, func(ctx context.Context) (*model.Product, error) {
		return u.products.MarkListed(ctx, productID, effective)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("product listed",
		slog.Int64("product_id", productID),
		slog.Int64("artist_id", artist.ID),
		slog.String("commission_rate", effective.String()),
	)
	return listed, nil
}

// Artist returns a single artist.
func (u *ArtistUseCase) Artist(ctx context.Context, artistID int64) (*model.Artist, error) {
	return withStore(ctx, u.timeout, func(ctx context.Context) (*model.Artist, error) {
		return u.artists.Get(ctx, artistID)
	})
}

// Artists lists every artist account.
func (u *ArtistUseCase) Artists(ctx context.Context) ([]model.Artist, error) {
	return withStore(ctx, u.timeout, u.artists.List)
}
