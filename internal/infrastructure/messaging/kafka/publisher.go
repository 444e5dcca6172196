package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/creatorhub/marketplace/internal/core/ports"
)

// Publisher writes account events to a Kafka topic, keyed by email so one
// account's events land on one partition in order.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducerConfig returns the sarama settings used for account events.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Idempotent = true
	config.Producer.Retry.Max = 5
	config.Net.MaxOpenRequests = 1
	return config
}

// NewPublisher dials the brokers and returns a Publisher for topic.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, oops.Code("KAFKA_PRODUCER_FAILED").With("brokers", brokers).Wrap(err)
	}
	return NewPublisherWithProducer(producer, topic), nil
}

// NewPublisherWithProducer wraps an existing producer.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Publish sends event synchronously. The context is checked before sending;
// sarama bounds the send itself with its own timeouts.
func (p *Publisher) Publish(ctx context.Context, event ports.AccountEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return oops.Code("EVENT_MARSHAL_FAILED").With("event_type", event.Type).Wrap(err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Email),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return oops.Code("EVENT_PUBLISH_FAILED").
			With("topic", p.topic).
			With("event_type", event.Type).
			Wrap(err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

// LogPublisher writes events to the log. It is used when no brokers are configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event ports.AccountEvent) error {
	p.log.Info().
		Str("event_type", event.Type).
		Str("email", event.Email).
		Str("role", event.Role).
		Time("occurred_at", event.OccurredAt).
		Msg("account event")
	return nil
}
