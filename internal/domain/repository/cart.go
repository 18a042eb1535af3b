package repository

import (
	"context"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// CartRepository reads cart snapshots written by the cart service.
type CartRepository interface {
	Get(ctx context.Context, customerID int64) (model.Cart, error)
}
