package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onemed1a/backend/internal/app"
	"github.com/onemed1a/backend/internal/config"
	"github.com/onemed1a/backend/internal/kafka"
	"github.com/onemed1a/backend/internal/outbox"
	pg "github.com/onemed1a/backend/internal/storage/postgres"
)

func run(logger zerolog.Logger) app.Runner {
	return func(ctx context.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
		if len(cfg.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is empty")
		}

		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()

		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("create producer: %w", err)
		}
		defer producer.Close()

		publisher, err := outbox.NewPublisher(outbox.PublisherConfig{
			OutboxRepo: pg.NewOutboxRepo(db),
			Producer:   producer,
			Interval:   cfg.OutboxInterval,
			BatchSize:  cfg.OutboxBatchSize,
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("create publisher: %w", err)
		}

		if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}
