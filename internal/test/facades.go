package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// SessionResolverStub resolves tokens for middleware tests.
type SessionResolverStub struct {
	Actor     model.Actor
	Err       error
	SessionFn func(context.Context, string) (model.Actor, error)
}

// Session delegates to SessionFn or returns the configured actor.
func (s SessionResolverStub) Session(ctx context.Context, token string) (model.Actor, error) {
	if s.SessionFn != nil {
		return s.SessionFn(ctx, token)
	}
	if s.Err != nil {
		return model.Actor{}, s.Err
	}
	return s.Actor, nil
}

// AuthFacadeStub simulates account operations.
type AuthFacadeStub struct {
	RegisterFn      func(context.Context, string, string, model.Role) (*model.User, string, error)
	AuthenticateFn  func(context.Context, string, string) (*model.User, string, error)
	UpdateProfileFn func(context.Context, int64, model.Profile) (*model.User, error)
}

// Register returns a customer with a token unless overridden.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string, role model.Role) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password, role)
	}
	if role == "" {
		role = model.RoleCustomer
	}
	return &model.User{ID: 1, Login: login, Role: role}, "token", nil
}

// Authenticate returns a customer with a token unless overridden.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return &model.User{ID: 1, Login: login, Role: model.RoleCustomer}, "token", nil
}

// UpdateProfile echoes the profile back on user 1.
func (s AuthFacadeStub) UpdateProfile(ctx context.Context, userID int64, profile model.Profile) (*model.User, error) {
	if s.UpdateProfileFn != nil {
		return s.UpdateProfileFn(ctx, userID, profile)
	}
	return &model.User{ID: userID, Login: "user", Role: model.RoleCustomer, Profile: profile}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CheckoutFn       func(context.Context, int64) (*model.Order, error)
	OrderFn          func(context.Context, model.Actor, int64) (*model.Order, error)
	CustomerOrdersFn func(context.Context, int64) ([]model.Order, error)
	ArtistOrdersFn   func(context.Context, int64) ([]model.Order, error)
	AllOrdersFn      func(context.Context) ([]model.Order, error)
	CancelOrderFn    func(context.Context, model.Actor, int64) (*model.Order, error)
	TransitionItemFn func(context.Context, model.Actor, int64, int64, model.ItemAction, string) (*model.Order, error)
}

// SampleOrder returns a single item pending order.
func SampleOrder(id, customerID int64) *model.Order {
	return &model.Order{
		ID:                     id,
		CustomerID:             customerID,
		OrderDate:              time.Unix(0, 0).UTC(),
		TotalAmountAtPlacement: decimal.RequireFromString("10.00"),
		Items: []model.OrderItem{{
			ID:               1,
			ProductID:        1,
			ArtistID:         2,
			Quantity:         1,
			PriceAtPurchase:  decimal.RequireFromString("10.00"),
			CommissionAmount: decimal.RequireFromString("1.00"),
			ArtistPayout:     decimal.RequireFromString("9.00"),
			ShippingStatus:   model.ShippingStatusPending,
		}},
	}
}

func (s OrderFacadeStub) Checkout(ctx context.Context, customerID int64) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, customerID)
	}
	return SampleOrder(1, customerID), nil
}

func (s OrderFacadeStub) Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, orderID)
	}
	return SampleOrder(orderID, actor.UserID), nil
}

func (s OrderFacadeStub) CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.CustomerOrdersFn != nil {
		return s.CustomerOrdersFn(ctx, customerID)
	}
	return []model.Order{*SampleOrder(1, customerID)}, nil
}

func (s OrderFacadeStub) ArtistOrders(ctx context.Context, artistID int64) ([]model.Order, error) {
	if s.ArtistOrdersFn != nil {
		return s.ArtistOrdersFn(ctx, artistID)
	}
	return []model.Order{*SampleOrder(1, 1)}, nil
}

func (s OrderFacadeStub) AllOrders(ctx context.Context) ([]model.Order, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx)
	}
	return []model.Order{*SampleOrder(1, 1), *SampleOrder(2, 3)}, nil
}

func (s OrderFacadeStub) CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, actor, orderID)
	}
	order := SampleOrder(orderID, actor.UserID)
	order.Items[0].ShippingStatus = model.ShippingStatusCancelled
	return order, nil
}

func (s OrderFacadeStub) TransitionItem(
	ctx context.Context,
	actor model.Actor,
	orderID, itemID int64,
	action model.ItemAction,
	trackingNumber string,
) (*model.Order, error) {
	if s.TransitionItemFn != nil {
		return s.TransitionItemFn(ctx, actor, orderID, itemID, action, trackingNumber)
	}
	return SampleOrder(orderID, 1), nil
}

// ArtistFacadeStub simulates artist administration and reporting.
type ArtistFacadeStub struct {
	ArtistsFn           func(context.Context) ([]model.Artist, error)
	TransitionStatusFn  func(context.Context, int64, model.ArtistStatus) (*model.Artist, error)
	SetCommissionRateFn func(context.Context, int64, decimal.Decimal) (*model.Artist, error)
	ListProductFn       func(context.Context, int64, *decimal.Decimal) (*model.Product, error)
	ArtistStatsFn       func(context.Context, int64, *time.Time, *time.Time) (*model.ArtistStats, error)
}

func (s ArtistFacadeStub) Artists(ctx context.Context) ([]model.Artist, error) {
	if s.ArtistsFn != nil {
		return s.ArtistsFn(ctx)
	}
	return []model.Artist{{ID: 2, Login: "painter", Status: model.ArtistStatusApproved}}, nil
}

func (s ArtistFacadeStub) TransitionArtistStatus(ctx context.Context, artistID int64, next model.ArtistStatus) (*model.Artist, error) {
	if s.TransitionStatusFn != nil {
		return s.TransitionStatusFn(ctx, artistID, next)
	}
	return &model.Artist{ID: artistID, Login: "painter", Status: next}, nil
}

func (s ArtistFacadeStub) SetCommissionRate(ctx context.Context, artistID int64, rate decimal.Decimal) (*model.Artist, error) {
	if s.SetCommissionRateFn != nil {
		return s.SetCommissionRateFn(ctx, artistID, rate)
	}
	return &model.Artist{ID: artistID, Login: "painter", Status: model.ArtistStatusApproved, CommissionRate: &rate}, nil
}

func (s ArtistFacadeStub) ListProduct(ctx context.Context, productID int64, rate *decimal.Decimal) (*model.Product, error) {
	if s.ListProductFn != nil {
		return s.ListProductFn(ctx, productID, rate)
	}
	effective := decimal.NewFromInt(10)
	if rate != nil {
		effective = *rate
	}
	return &model.Product{ID: productID, ArtistID: 2, Title: "Vase", Price: decimal.RequireFromString("10.00"), CommissionRate: &effective, Listed: true}, nil
}

func (s ArtistFacadeStub) ArtistStats(ctx context.Context, artistID int64, from, to *time.Time) (*model.ArtistStats, error) {
	if s.ArtistStatsFn != nil {
		return s.ArtistStatsFn(ctx, artistID, from, to)
	}
	return &model.ArtistStats{TopProducts: []model.ProductSales{}}, nil
}

// CommerceFacadeStub aggregates facade dependencies for HTTP layer tests.
type CommerceFacadeStub struct {
	SessionResolverStub
	AuthFacadeStub
	OrderFacadeStub
	ArtistFacadeStub
}
