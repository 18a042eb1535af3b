package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Numeric columns are selected as text so no precision is lost on the way.

func parseMoney(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return d, nil
}

func parseRate(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := parseMoney(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
