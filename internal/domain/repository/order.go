package repository

import (
	"context"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Place stores order and clears the cart in one transaction, provided the
	// cart still matches snapshot.
	Place(ctx context.Context, snapshot model.Cart, order model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	// ListByArtist returns orders holding at least one item of artistID, read from a single snapshot.
	ListByArtist(ctx context.Context, artistID int64, window model.DateRange) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	// TransitionItem is a compare-and-swap on the item status.
	TransitionItem(ctx context.Context, transition model.ItemTransition) error
	// CancelPending cancels every pending item unless some item is already accepted.
	CancelPending(ctx context.Context, orderID int64) error
}
