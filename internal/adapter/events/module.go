package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/craftmarket/internal/config"
)

// Module exposes event publisher implementation to fx graph.
var Module = fx.Options(
	fx.Provide(DefaultBreakerSettings, newPublisher),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config  *config.Config
	Breaker BreakerSettings
	Logger  *slog.Logger
}

func newPublisher(p publisherParams) (Publisher, error) {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Warn("kafka brokers are not configured, events are only logged")
		return NewLogPublisher(p.Logger), nil
	}
	return NewKafkaPublisher(p.Config.KafkaBrokers, p.Config.EventsTopic, p.Breaker, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, publisher Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
}
