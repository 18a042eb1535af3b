package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/craftmarket/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newStoreTimeout,
	DefaultRegistrationPolicy,
	NewAuthUseCase,
	NewOrderUseCase,
	NewArtistUseCase,
	NewStatsUseCase,
)

func newStoreTimeout(cfg *config.Config) StoreTimeout {
	return StoreTimeout(cfg.StoreTimeout)
}
