package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

const defaultWriteTimeout = 5 * time.Second

// Writer is the subset of *kafkago.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Config configures the settlement event producer.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Publisher writes JSON-encoded events to a single topic.
// It implements ports.EventPublisher.
type Publisher struct {
	writer Writer
	topic  string
	log    zerolog.Logger
}

// NewPublisher builds a synchronous kafka-go writer for cfg.Topic. The
// writer dials lazily, so an unreachable broker surfaces on first Publish.
func NewPublisher(cfg Config, log zerolog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: topic is not configured")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}
	return NewPublisherWithWriter(w, cfg.Topic, log), nil
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(w Writer, topic string, log zerolog.Logger) *Publisher {
	return &Publisher{
		writer: w,
		topic:  topic,
		log:    log.With().Str("component", "kafka").Str("topic", topic).Logger(),
	}
}

// Publish marshals value to JSON and writes it keyed by key, so every event
// for one invoice lands on the same partition.
func (p *Publisher) Publish(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error().Err(err).Str("key", key).Msg("failed to publish event")
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	p.log.Debug().Str("key", key).Int("bytes", len(payload)).Msg("event published")
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer for %s: %w", p.topic, err)
	}
	return nil
}
