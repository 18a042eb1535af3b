package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingStatus describes shipment lifecycle of a single order item.
type ShippingStatus string

const (
	ShippingStatusPending       ShippingStatus = "pending"
	ShippingStatusOrderAccepted ShippingStatus = "orderAccepted"
	ShippingStatusShipped       ShippingStatus = "shipped"
	ShippingStatusCancelled     ShippingStatus = "cancelled"
)

// Terminal reports whether no further shipment progress is possible.
func (s ShippingStatus) Terminal() bool {
	return s == ShippingStatusShipped || s == ShippingStatusCancelled
}

// Valid reports whether s is one of the known shipping statuses.
func (s ShippingStatus) Valid() bool {
	switch s {
	case ShippingStatusPending, ShippingStatusOrderAccepted, ShippingStatusShipped, ShippingStatusCancelled:
		return true
	}
	return false
}

// ItemAction is an operation requested on an order item.
type ItemAction string

const (
	ItemActionAccept ItemAction = "accept"
	ItemActionShip   ItemAction = "ship"
	ItemActionCancel ItemAction = "cancel"
)

// Valid reports whether a is a known item action.
func (a ItemAction) Valid() bool {
	switch a {
	case ItemActionAccept, ItemActionShip, ItemActionCancel:
		return true
	}
	return false
}

// itemTransitions is the only source of legal item status changes.
// shipped -> shipped via ship is the tracking number correction path.
var itemTransitions = map[ShippingStatus]map[ItemAction]ShippingStatus{
	ShippingStatusPending: {
		ItemActionAccept: ShippingStatusOrderAccepted,
		ItemActionCancel: ShippingStatusCancelled,
	},
	ShippingStatusOrderAccepted: {
		ItemActionShip:   ShippingStatusShipped,
		ItemActionCancel: ShippingStatusCancelled,
	},
	ShippingStatusShipped: {
		ItemActionShip: ShippingStatusShipped,
	},
}

// Next resolves the status reached by applying action to s.
func (s ShippingStatus) Next(action ItemAction) (ShippingStatus, bool) {
	next, ok := itemTransitions[s][action]
	return next, ok
}

// OrderStatus is the order level projection of its items.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// OrderItem is one product line within an order and the unit of shipment tracking.
type OrderItem struct {
	ID               int64           `json:"id"`
	ProductID        int64           `json:"product_id"`
	ArtistID         int64           `json:"artist_id"`
	ProductTitle     string          `json:"product_title,omitempty"`
	Quantity         int             `json:"quantity"`
	PriceAtPurchase  decimal.Decimal `json:"price_at_purchase"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	ArtistPayout     decimal.Decimal `json:"artist_payout"`
	ShippingStatus   ShippingStatus  `json:"shipping_status"`
	ShippedDate      *time.Time      `json:"shipped_date"`
	TrackingNumber   *string         `json:"tracking_number"`
}

// Subtotal returns price at purchase multiplied by quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return RoundMoney(i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// Order is an immutable purchase created once per checkout.
type Order struct {
	ID                     int64           `json:"id"`
	CustomerID             int64           `json:"customer_id"`
	OrderDate              time.Time       `json:"order_date"`
	Items                  []OrderItem     `json:"items"`
	TotalAmountAtPlacement decimal.Decimal `json:"total_amount_at_placement"`
}

// Status derives order status from item statuses. It is never stored.
func (o Order) Status() OrderStatus {
	for _, item := range o.Items {
		if !item.ShippingStatus.Terminal() {
			return OrderStatusPending
		}
	}
	return OrderStatusCompleted
}

// Item returns item with the given identifier.
func (o Order) Item(itemID int64) (OrderItem, bool) {
	for _, item := range o.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return OrderItem{}, false
}

// ForArtist returns a copy of the order restricted to items owned by artistID.
func (o Order) ForArtist(artistID int64) Order {
	filtered := o
	filtered.Items = make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.ArtistID == artistID {
			filtered.Items = append(filtered.Items, item)
		}
	}
	return filtered
}

// HasArtist reports whether the order contains at least one item of artistID.
func (o Order) HasArtist(artistID int64) bool {
	for _, item := range o.Items {
		if item.ArtistID == artistID {
			return true
		}
	}
	return false
}

// ItemTransition describes a compare-and-swap status change of a single item.
type ItemTransition struct {
	OrderID        int64
	ItemID         int64
	Expected       ShippingStatus
	Next           ShippingStatus
	TrackingNumber *string
	ShippedDate    *time.Time
}
