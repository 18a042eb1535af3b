package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/domain/repository"
	"github.com/polkiloo/craftmarket/internal/usecase"
)

// EventPublisher delivers outbox events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}

// CommerceFacade is the single entry point used by the HTTP layer and the outbox relay.
type CommerceFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	artists   *usecase.ArtistUseCase
	stats     *usecase.StatsUseCase
	outbox    repository.OutboxRepository
	publisher EventPublisher
}

func NewCommerceFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	artists *usecase.ArtistUseCase,
	stats *usecase.StatsUseCase,
	outbox repository.OutboxRepository,
	publisher EventPublisher,
) *CommerceFacade {
	return &CommerceFacade{
		auth:      auth,
		orders:    orders,
		artists:   artists,
		stats:     stats,
		outbox:    outbox,
		publisher: publisher,
	}
}

func (f *CommerceFacade) Register(ctx context.Context, login, password string, role model.Role) (*model.User, string, error) {
	return f.auth.Register(ctx, login, password, role)
}

func (f *CommerceFacade) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

// Session resolves token into the acting user. Artists that lost approval
// after logging in are rejected here.
func (f *CommerceFacade) Session(ctx context.Context, token string) (model.Actor, error) {
	userID, err := f.auth.ParseToken(token)
	if err != nil {
		return model.Actor{}, err
	}
	user, err := f.auth.GetByID(ctx, userID)
	if err != nil {
		return model.Actor{}, err
	}
	if !user.CanLogIn() {
		return model.Actor{}, &domainErrors.AccountNotApprovedError{Status: string(user.ArtistStatus)}
	}
	return model.Actor{UserID: user.ID, Role: user.Role}, nil
}

func (f *CommerceFacade) UpdateProfile(ctx context.Context, userID int64, profile model.Profile) (*model.User, error) {
	return f.auth.UpdateProfile(ctx, userID, profile)
}

func (f *CommerceFacade) Checkout(ctx context.Context, customerID int64) (*model.Order, error) {
	return f.orders.Checkout(ctx, customerID)
}

func (f *CommerceFacade) Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.Order(ctx, actor, orderID)
}

func (f *CommerceFacade) CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error) {
	return f.orders.OrdersForCustomer(ctx, customerID)
}

func (f *CommerceFacade) ArtistOrders(ctx context.Context, artistID int64) ([]model.Order, error) {
	return f.orders.OrdersForArtist(ctx, artistID)
}

func (f *CommerceFacade) AllOrders(ctx context.Context) ([]model.Order, error) {
	return f.orders.AllOrders(ctx)
}

func (f *CommerceFacade) CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.CancelOrder(ctx, actor, orderID)
}

func (f *CommerceFacade) TransitionItem(
	ctx context.Context,
	actor model.Actor,
	orderID, itemID int64,
	action model.ItemAction,
	trackingNumber string,
) (*model.Order, error) {
	return f.orders.TransitionItem(ctx, actor, orderID, itemID, action, trackingNumber)
}

func (f *CommerceFacade) Artists(ctx context.Context) ([]model.Artist, error) {
	return f.artists.Artists(ctx)
}

func (f *CommerceFacade) TransitionArtistStatus(ctx context.Context, artistID int64, next model.ArtistStatus) (*model.Artist, error) {
	return f.artists.TransitionStatus(ctx, artistID, next)
}

func (f *CommerceFacade) SetCommissionRate(ctx context.Context, artistID int64, rate decimal.Decimal) (*model.Artist, error) {
	return f.artists.SetCommissionRate(ctx, artistID, rate)
}

func (f *CommerceFacade) ListProduct(ctx context.Context, productID int64, rate *decimal.Decimal) (*model.Product, error) {
	return f.artists.ListProduct(ctx, productID, rate)
}

func (f *CommerceFacade) ArtistStats(ctx context.Context, artistID int64, from, to *time.Time) (*model.ArtistStats, error) {
	return f.stats.ArtistStats(ctx, artistID, from, to)
}

func (f *CommerceFacade) ClaimEvents(ctx context.Context, limit int) ([]model.Event, error) {
	return f.outbox.ClaimBatch(ctx, limit)
}

// DeliverEvent publishes event and marks it as published. A crash between the
// two steps republishes the event, so consumers must tolerate duplicates.
func (f *CommerceFacade) DeliverEvent(ctx context.Context, event model.Event) error {
	if err := f.publisher.Publish(ctx, event); err != nil {
		return err
	}
	if err := f.outbox.MarkPublished(ctx, event.ID); err != nil {
		return fmt.Errorf("event %s published but not marked: %w", event.ID, err)
	}
	return nil
}

func (f *CommerceFacade) ReleaseEvent(ctx context.Context, id uuid.UUID) error {
	return f.outbox.Release(ctx, id)
}
