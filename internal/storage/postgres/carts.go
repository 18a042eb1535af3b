package postgres

import (
	"context"
	"fmt"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

const cartItemsQuery = `SELECT product_id, quantity, price::text FROM cart_items WHERE customer_id = $1 ORDER BY id`

// Get returns the current cart contents. A customer without a cart has an empty one.
func (r *cartRepository) Get(ctx context.Context, customerID int64) (model.Cart, error) {
	cart, err := readCart(ctx, r.storage.pool, customerID)
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func readCart(ctx context.Context, q queryer, customerID int64) (model.Cart, error) {
	rows, err := q.Query(ctx, cartItemsQuery, customerID)
	if err != nil {
		return model.Cart{}, fmt.Errorf("read cart: %w", err)
	}
	defer rows.Close()

	cart := model.Cart{CustomerID: customerID}
	for rows.Next() {
		var (
			item  model.CartItem
			price string
		)
		if err := rows.Scan(&item.ProductID, &item.Quantity, &price); err != nil {
			return model.Cart{}, fmt.Errorf("scan cart item: %w", err)
		}
		if item.Price, err = parseMoney(price); err != nil {
			return model.Cart{}, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return model.Cart{}, fmt.Errorf("iterate cart: %w", err)
	}
	return cart, nil
}
