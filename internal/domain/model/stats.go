package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSales is a top products entry.
type ProductSales struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// ArtistStats aggregates order figures of one artist.
type ArtistStats struct {
	TotalOrders     int             `json:"total_orders"`
	TotalOrderValue decimal.Decimal `json:"total_order_value"`
	TotalPayout     decimal.Decimal `json:"total_payout"`
	Cancellations   int             `json:"cancellations"`
	Shipped         int             `json:"shipped"`
	Pending         int             `json:"pending"`
	TopProducts     []ProductSales  `json:"top_products"`
}

// DateRange is an inclusive, optionally open-ended time window.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}
