// Package settlement splits sale proceeds into platform commission and artist payout.
package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
)

var (
	hundred = decimal.NewFromInt(100)
)

// Engine computes settlements. It holds no state besides the fallback rate.
type Engine struct {
	defaultRate decimal.Decimal
}

// NewEngine creates Engine whose fallback rate applies when a product carries no rate.
func NewEngine(defaultRate decimal.Decimal) (*Engine, error) {
	if err := ValidateRate(defaultRate); err != nil {
		return nil, fmt.Errorf("default commission rate: %w", err)
	}
	return &Engine{defaultRate: defaultRate}, nil
}

// DefaultRate returns the fallback commission rate.
func (e *Engine) DefaultRate() decimal.Decimal {
	return e.defaultRate
}

// Compute returns commission and payout for quantity units sold at price.
// A nil rate falls back to the default rate. Payout absorbs rounding residue so that
// commission + payout always equals the rounded gross amount.
func (e *Engine) Compute(price decimal.Decimal, quantity int, rate *decimal.Decimal) (model.Settlement, error) {
	if quantity <= 0 {
		return model.Settlement{}, domainErrors.ErrInvalidQuantity
	}
	if price.IsNegative() {
		return model.Settlement{}, domainErrors.ErrInvalidPrice
	}

	effective := e.defaultRate
	if rate != nil {
		effective = *rate
	}
	if err := ValidateRate(effective); err != nil {
		return model.Settlement{}, err
	}

	raw := price.Mul(decimal.NewFromInt(int64(quantity)))
	gross := model.RoundMoney(raw)
	commission := model.RoundMoney(raw.Mul(effective).Div(hundred))

	return model.Settlement{
		Gross:            gross,
		CommissionAmount: commission,
		ArtistPayout:     gross.Sub(commission),
	}, nil
}

// ValidateRate checks that rate is a percentage within [0, 100).
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(hundred) {
		return domainErrors.ErrInvalidRate
	}
	return nil
}
