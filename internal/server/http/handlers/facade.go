package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/server/http/middleware"
)

// AuthFacade describes account capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string, role model.Role) (*model.User, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, string, error)
	UpdateProfile(ctx context.Context, userID int64, profile model.Profile) (*model.User, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, customerID int64) (*model.Order, error)
	Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error)
	ArtistOrders(ctx context.Context, artistID int64) ([]model.Order, error)
	AllOrders(ctx context.Context) ([]model.Order, error)
	CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	TransitionItem(ctx context.Context, actor model.Actor, orderID, itemID int64, action model.ItemAction, trackingNumber string) (*model.Order, error)
}

// ArtistFacade covers artist onboarding, listings and reporting.
type ArtistFacade interface {
	Artists(ctx context.Context) ([]model.Artist, error)
	TransitionArtistStatus(ctx context.Context, artistID int64, next model.ArtistStatus) (*model.Artist, error)
	SetCommissionRate(ctx context.Context, artistID int64, rate decimal.Decimal) (*model.Artist, error)
	ListProduct(ctx context.Context, productID int64, rate *decimal.Decimal) (*model.Product, error)
	ArtistStats(ctx context.Context, artistID int64, from, to *time.Time) (*model.ArtistStats, error)
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	middleware.SessionResolver
	AuthFacade
	OrderFacade
	ArtistFacade
}
