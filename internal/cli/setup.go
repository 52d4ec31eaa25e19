package cli

import (
	"context"

	"github.com/joho/godotenv"

	"expense-insights/internal/amqp"
	"expense-insights/internal/config"
	"expense-insights/internal/log"
)

// LoadEnvFile loads a .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// NewLogger builds the stderr logger described by cfg and makes it the
// slog default.
func NewLogger(cfg *config.Config) *log.Logger {
	lc := log.DefaultConfig()
	lc.Level = log.ParseLevel(cfg.LogLevel)
	lc.Format = cfg.LogFormat
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// AMQPPublisher returns a PublishFunc that connects on first use, publishes
// one message and disconnects.
func AMQPPublisher(cfg *config.Config, logger *log.Logger) PublishFunc {
	return func(ctx context.Context, msg *amqp.InsightsMessage) error {
		client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		return client.PublishInsights(ctx, msg)
	}
}
