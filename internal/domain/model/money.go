package model

import "github.com/shopspring/decimal"

// MoneyPlaces is the currency precision used for every monetary amount.
const MoneyPlaces = 2

// RoundMoney rounds amount to currency precision, half away from zero.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// Settlement splits proceeds of a sale into platform commission and artist payout.
type Settlement struct {
	Gross            decimal.Decimal
	CommissionAmount decimal.Decimal
	ArtistPayout     decimal.Decimal
}
