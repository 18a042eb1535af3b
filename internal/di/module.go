package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/craftmarket/internal/adapter/events"
	"github.com/polkiloo/craftmarket/internal/app"
	"github.com/polkiloo/craftmarket/internal/config"
	"github.com/polkiloo/craftmarket/internal/logger"
	"github.com/polkiloo/craftmarket/internal/pkg/auth"
	"github.com/polkiloo/craftmarket/internal/server/http/handlers"
	"github.com/polkiloo/craftmarket/internal/server/http/router"
	"github.com/polkiloo/craftmarket/internal/settlement"
	"github.com/polkiloo/craftmarket/internal/storage/postgres"
	"github.com/polkiloo/craftmarket/internal/usecase"
)

// Module assembles the full application graph. Extra options are applied
// last so tests can replace infrastructure.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		events.Module,
		settlement.Module,
		usecase.Module,
		fx.Provide(
			func(p events.Publisher) app.EventPublisher { return p },
			func(f *app.CommerceFacade) handlers.CommerceFacade { return f },
			func(s *postgres.Storage) router.HealthChecker { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
