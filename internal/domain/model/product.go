package model

import "github.com/shopspring/decimal"

// Product is the subset of catalog data needed for settlement.
type Product struct {
	ID             int64
	ArtistID       int64
	Title          string
	Price          decimal.Decimal
	CommissionRate *decimal.Decimal
	Listed         bool
}
