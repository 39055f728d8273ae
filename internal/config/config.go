package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr        string `envconfig:"ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Kafka is optional: with no brokers configured the API runs
	// without event publishing and cmd/outbox refuses to start.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"usermedia.status.events"`

	OutboxInterval  time.Duration `envconfig:"OUTBOX_INTERVAL" default:"1s"`
	OutboxBatchSize int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	return c, nil
}
