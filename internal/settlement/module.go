package settlement

import (
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/craftmarket/internal/config"
)

// Module provides the commission engine configured with the platform default rate.
var Module = fx.Provide(newEngine)

func newEngine(cfg *config.Config) (*Engine, error) {
	return NewEngine(decimal.NewFromFloat(cfg.DefaultCommissionRate))
}
