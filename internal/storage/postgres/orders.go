package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
)

const orderColumns = `o.id, o.customer_id, o.order_date, o.total_amount::text`

const orderItemsQuery = `
        SELECT oi.order_id, oi.id, oi.product_id, oi.artist_id, COALESCE(p.title, ''), oi.quantity,
               oi.price_at_purchase::text, oi.commission_amount::text, oi.artist_payout::text,
               oi.shipping_status, oi.shipped_date, oi.tracking_number
        FROM order_items oi
        LEFT JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id = ANY($1)
        ORDER BY oi.order_id, oi.id`

type orderPlacedItem struct {
	ItemID           int64  `json:"item_id"`
	ProductID        int64  `json:"product_id"`
	ArtistID         int64  `json:"artist_id"`
	Quantity         int    `json:"quantity"`
	CommissionAmount string `json:"commission_amount"`
	ArtistPayout     string `json:"artist_payout"`
}

type orderPlacedPayload struct {
	OrderID    int64             `json:"order_id"`
	CustomerID int64             `json:"customer_id"`
	Total      string            `json:"total"`
	Items      []orderPlacedItem `json:"items"`
}

type itemTransitionPayload struct {
	OrderID        int64                `json:"order_id"`
	ItemID         int64                `json:"item_id"`
	From           model.ShippingStatus `json:"from"`
	To             model.ShippingStatus `json:"to"`
	TrackingNumber *string              `json:"tracking_number,omitempty"`
}

type orderCancelledPayload struct {
	OrderID int64   `json:"order_id"`
	ItemIDs []int64 `json:"item_ids"`
}

// Place persists order and empties the cart, provided the cart still holds
// exactly the snapshot the order was settled from.
func (r *orderRepository) Place(ctx context.Context, snapshot model.Cart, order model.Order) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT customer_id FROM carts WHERE customer_id = $1 FOR UPDATE`, order.CustomerID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrCartChanged
		}
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}

		current, err := readCart(ctx, tx, order.CustomerID)
		if err != nil {
			return err
		}
		if !current.SameItems(snapshot) {
			return domainErrors.ErrCartChanged
		}

		if err := tx.QueryRow(ctx, `
            INSERT INTO orders (customer_id, order_date, total_amount)
            VALUES ($1, $2, $3)
            RETURNING id
        `, order.CustomerID, order.OrderDate, order.TotalAmountAtPlacement.StringFixed(model.MoneyPlaces)).Scan(&order.ID); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		payload := orderPlacedPayload{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Total:      order.TotalAmountAtPlacement.StringFixed(model.MoneyPlaces),
			Items:      make([]orderPlacedItem, 0, len(order.Items)),
		}
		items := make([]model.OrderItem, len(order.Items))
		copy(items, order.Items)
		for i := range items {
			item := &items[i]
			if err := tx.QueryRow(ctx, `
                INSERT INTO order_items (order_id, product_id, artist_id, quantity, price_at_purchase,
                    commission_amount, artist_payout, shipping_status)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                RETURNING id
            `,
				order.ID,
				item.ProductID,
				item.ArtistID,
				item.Quantity,
				item.PriceAtPurchase.String(),
				item.CommissionAmount.StringFixed(model.MoneyPlaces),
				item.ArtistPayout.StringFixed(model.MoneyPlaces),
				string(item.ShippingStatus),
			).Scan(&item.ID); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			payload.Items = append(payload.Items, orderPlacedItem{
				ItemID:           item.ID,
				ProductID:        item.ProductID,
				ArtistID:         item.ArtistID,
				Quantity:         item.Quantity,
				CommissionAmount: item.CommissionAmount.StringFixed(model.MoneyPlaces),
				ArtistPayout:     item.ArtistPayout.StringFixed(model.MoneyPlaces),
			})
		}
		order.Items = items

		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, order.CustomerID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		return enqueue(ctx, tx, model.EventOrderPlaced, strconv.FormatInt(order.ID, 10), payload)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	orders, err := loadOrders(ctx, r.storage.pool, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domainErrors.ErrOrderNotFound
	}
	return &orders[0], nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return loadOrders(ctx, r.storage.pool, `
        SELECT `+orderColumns+` FROM orders o
        WHERE o.customer_id = $1
        ORDER BY o.order_date DESC, o.id DESC`, customerID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	return loadOrders(ctx, r.storage.pool, `SELECT `+orderColumns+` FROM orders o ORDER BY o.order_date DESC, o.id DESC`)
}

// ListByArtist reads orders and their items from a single snapshot so that
// concurrent transitions cannot produce a mixed view.
func (r *orderRepository) ListByArtist(ctx context.Context, artistID int64, window model.DateRange) ([]model.Order, error) {
	var orders []model.Order
	err := r.storage.ReadSnapshot(ctx, func(tx pgx.Tx) error {
		var err error
		orders, err = loadOrders(ctx, tx, `
            SELECT `+orderColumns+` FROM orders o
            WHERE EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.artist_id = $1)
              AND ($2::timestamptz IS NULL OR o.order_date >= $2)
              AND ($3::timestamptz IS NULL OR o.order_date <= $3)
            ORDER BY o.order_date, o.id`, artistID, window.From, window.To)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// TransitionItem is a compare-and-swap on the item status. A lost race is
// reported with the status that won.
func (r *orderRepository) TransitionItem(ctx context.Context, transition model.ItemTransition) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
            UPDATE order_items
            SET shipping_status = $1,
                tracking_number = COALESCE($2, tracking_number),
                shipped_date = COALESCE($3, shipped_date)
            WHERE id = $4 AND order_id = $5 AND shipping_status = $6
        `,
			string(transition.Next),
			transition.TrackingNumber,
			transition.ShippedDate,
			transition.ItemID,
			transition.OrderID,
			string(transition.Expected),
		)
		if err != nil {
			return fmt.Errorf("transition item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return currentItemStatus(ctx, tx, transition.OrderID, transition.ItemID)
		}

		return enqueue(ctx, tx, model.EventOrderItemTransition, strconv.FormatInt(transition.OrderID, 10), itemTransitionPayload{
			OrderID:        transition.OrderID,
			ItemID:         transition.ItemID,
			From:           transition.Expected,
			To:             transition.Next,
			TrackingNumber: transition.TrackingNumber,
		})
	})
}

func currentItemStatus(ctx context.Context, tx pgx.Tx, orderID, itemID int64) error {
	var current string
	err := tx.QueryRow(ctx,
		`SELECT shipping_status FROM order_items WHERE id = $1 AND order_id = $2`, itemID, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("read item status: %w", err)
	}
	return domainErrors.NewConflict(domainErrors.ErrInvalidTransition, current)
}

// CancelPending locks every item of the order and cancels the pending ones,
// unless fulfilment of some item has already started.
func (r *orderRepository) CancelPending(ctx context.Context, orderID int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id, shipping_status FROM order_items WHERE order_id = $1 ORDER BY id FOR UPDATE`, orderID)
		if err != nil {
			return fmt.Errorf("lock order items: %w", err)
		}

		var (
			locked  model.Order
			pending []int64
		)
		for rows.Next() {
			var (
				item   model.OrderItem
				status string
			)
			if err := rows.Scan(&item.ID, &status); err != nil {
				rows.Close()
				return fmt.Errorf("scan order item: %w", err)
			}
			item.ShippingStatus = model.ShippingStatus(status)
			locked.Items = append(locked.Items, item)
			if item.ShippingStatus == model.ShippingStatusPending {
				pending = append(pending, item.ID)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate order items: %w", err)
		}

		if len(locked.Items) == 0 {
			return domainErrors.ErrOrderNotFound
		}
		for _, item := range locked.Items {
			if item.ShippingStatus == model.ShippingStatusOrderAccepted {
				return domainErrors.NewConflict(domainErrors.ErrOrderInProgress, string(item.ShippingStatus))
			}
		}
		if len(pending) == 0 {
			return domainErrors.NewConflict(domainErrors.ErrInvalidTransition, string(locked.Status()))
		}

		if _, err := tx.Exec(ctx, `
            UPDATE order_items SET shipping_status = $1
            WHERE order_id = $2 AND shipping_status = $3
        `, string(model.ShippingStatusCancelled), orderID, string(model.ShippingStatusPending)); err != nil {
			return fmt.Errorf("cancel order items: %w", err)
		}

		return enqueue(ctx, tx, model.EventOrderCancelled, strconv.FormatInt(orderID, 10), orderCancelledPayload{
			OrderID: orderID,
			ItemIDs: pending,
		})
	})
}

// loadOrders runs header query and attaches items of every returned order.
func loadOrders(ctx context.Context, q queryer, query string, args ...any) ([]model.Order, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	var (
		orders []model.Order
		ids    []int64
	)
	for rows.Next() {
		var (
			order model.Order
			total string
		)
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.OrderDate, &total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if order.TotalAmountAtPlacement, err = parseMoney(total); err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := loadItems(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func loadItems(ctx context.Context, q queryer, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	rows, err := q.Query(ctx, orderItemsQuery, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID                   int64
			item                      model.OrderItem
			price, commission, payout string
			status                    string
			shippedDate               *time.Time
			trackingNumber            *string
		)
		if err := rows.Scan(
			&orderID,
			&item.ID,
			&item.ProductID,
			&item.ArtistID,
			&item.ProductTitle,
			&item.Quantity,
			&price,
			&commission,
			&payout,
			&status,
			&shippedDate,
			&trackingNumber,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if item.PriceAtPurchase, err = parseMoney(price); err != nil {
			return nil, err
		}
		if item.CommissionAmount, err = parseMoney(commission); err != nil {
			return nil, err
		}
		if item.ArtistPayout, err = parseMoney(payout); err != nil {
			return nil, err
		}
		item.ShippingStatus = model.ShippingStatus(status)
		item.ShippedDate = shippedDate
		item.TrackingNumber = trackingNumber
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}
