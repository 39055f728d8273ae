package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	MaxRetries   int
	RetryBackoff time.Duration
	WriteTimeout time.Duration
	BatchSize    int
	Async        bool
	Logger       zerolog.Logger
}

type Message struct {
	Key   string
	Value []byte
}

// Metrics is a snapshot of producer counters.
type Metrics struct {
	MessagesPublished int64
	MessagesFailed    int64
	RetriesTotal      int64
	AvgPublishTime    time.Duration
}

type producerMetrics struct {
	MessagesPublished atomic.Int64
	MessagesFailed    atomic.Int64
	RetriesTotal      atomic.Int64
	PublishDuration   atomic.Int64 // суммарно, в наносекундах
}

type Producer struct {
	writer  *kafkago.Writer
	config  ProducerConfig
	logger  zerolog.Logger
	metrics producerMetrics
	closed  atomic.Bool
}

func validateConfig(cfg *ProducerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New("brokers list is empty")
	}
	if cfg.Topic == "" {
		return errors.New("topic is empty")
	}
	if cfg.MaxRetries < 0 {
		return errors.New("max_retries cannot be negative")
	}
	if cfg.RetryBackoff < 0 {
		return errors.New("retry_backoff cannot be negative")
	}
	if cfg.WriteTimeout < 0 {
		return errors.New("write_timeout cannot be negative")
	}
	return nil
}

func setDefaults(cfg *ProducerConfig) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid producer config: %w", err)
	}
	setDefaults(&cfg)

	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchSize:    cfg.BatchSize,
			Async:        cfg.Async,
			WriteTimeout: cfg.WriteTimeout,
		},
		config: cfg,
		logger: cfg.Logger.With().Str("component", "kafka_producer").Logger(),
	}, nil
}

// Publish writes one message, retrying transient broker failures with
// linear backoff. Delivery is at-least-once; consumers must be
// idempotent.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	if p.closed.Load() {
		return errors.New("producer is closed")
	}

	start := time.Now()
	defer func() {
		p.metrics.PublishDuration.Add(int64(time.Since(start)))
	}()

	msg := kafkago.Message{
		Key:   []byte(key),
		Value: value,
	}

	var lastErr error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			p.metrics.RetriesTotal.Add(1)
			select {
			case <-ctx.Done():
				p.metrics.MessagesFailed.Add(1)
				return ctx.Err()
			case <-time.After(p.config.RetryBackoff * time.Duration(attempt)):
			}
		}

		lastErr = p.writer.WriteMessages(ctx, msg)
		if lastErr == nil {
			p.metrics.MessagesPublished.Add(1)
			return nil
		}
		if !isRetriableError(lastErr) {
			break
		}

		p.logger.Warn().
			Err(lastErr).
			Int("attempt", attempt+1).
			Str("key", key).
			Msg("publish attempt failed")
	}

	p.metrics.MessagesFailed.Add(1)
	return fmt.Errorf("kafka publish: %w", lastErr)
}

// PublishBatch writes the whole batch in one call; an empty batch is
// a no-op. No per-message retry here: the caller re-reads pending
// events anyway.
func (p *Producer) PublishBatch(ctx context.Context, messages []Message) error {
	if p.closed.Load() {
		return errors.New("producer is closed")
	}
	if len(messages) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(m.Key),
			Value: m.Value,
		})
	}

	start := time.Now()
	err := p.writer.WriteMessages(ctx, msgs...)
	p.metrics.PublishDuration.Add(int64(time.Since(start)))
	if err != nil {
		p.metrics.MessagesFailed.Add(int64(len(messages)))
		return fmt.Errorf("kafka publish batch: %w", err)
	}

	p.metrics.MessagesPublished.Add(int64(len(messages)))
	return nil
}

// HealthCheck dials the first broker.
func (p *Producer) HealthCheck(ctx context.Context) error {
	if p.closed.Load() {
		return errors.New("producer is closed")
	}

	conn, err := kafkago.DialContext(ctx, "tcp", p.config.Brokers[0])
	if err != nil {
		return fmt.Errorf("kafka dial: %w", err)
	}
	return conn.Close()
}

func (p *Producer) GetMetrics() Metrics {
	m := Metrics{
		MessagesPublished: p.metrics.MessagesPublished.Load(),
		MessagesFailed:    p.metrics.MessagesFailed.Load(),
		RetriesTotal:      p.metrics.RetriesTotal.Load(),
	}
	if m.MessagesPublished > 0 {
		m.AvgPublishTime = time.Duration(p.metrics.PublishDuration.Load() / m.MessagesPublished)
	}
	return m
}

func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return errors.New("producer is already closed")
	}
	return p.writer.Close()
}

// isRetriableError классифицирует ошибки брокера: сетевые и leader
// election — повторяем, ошибки самого сообщения — нет.
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())

	nonRetriable := []string{
		"invalid message",
		"message too large",
		"authorization failed",
	}
	for _, s := range nonRetriable {
		if strings.Contains(msg, s) {
			return false
		}
	}

	retriable := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"leader not available",
	}
	for _, s := range retriable {
		if strings.Contains(msg, s) {
			return true
		}
	}

	// Неизвестные ошибки считаем временными.
	return true
}
