package messaging

import (
	"fmt"
	"strconv"

	"ledger-api/internal/infrastructure/messaging/kafka"
)

// EventPublisher defines the interface for publishing ledger events
type EventPublisher interface {
	PublishTransactionAccepted(event TransactionAcceptedEvent) error
	PublishTransactionRejected(event TransactionRejectedEvent) error
	PublishAccountLocked(event AccountLockedEvent) error
	Close() error
	IsHealthy() bool
}

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer *kafka.Producer
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(config *kafka.Config) (*KafkaEventPublisher, error) {
	producer, err := kafka.NewProducer(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaEventPublisher{producer: producer}, nil
}

// PublishTransactionAccepted publishes a processed transaction. Keyed by
// client so per-account event order survives partitioning.
func (p *KafkaEventPublisher) PublishTransactionAccepted(event TransactionAcceptedEvent) error {
	key := strconv.Itoa(int(event.Client))
	return p.producer.PublishEvent(kafka.TopicTransactionAccepted, key, event)
}

// PublishTransactionRejected publishes a rejected transaction for the
// audit trail.
func (p *KafkaEventPublisher) PublishTransactionRejected(event TransactionRejectedEvent) error {
	key := strconv.Itoa(int(event.Client))
	return p.producer.PublishEvent(kafka.TopicTransactionRejected, key, event)
}

// PublishAccountLocked publishes an account freeze.
func (p *KafkaEventPublisher) PublishAccountLocked(event AccountLockedEvent) error {
	key := strconv.Itoa(int(event.Client))
	return p.producer.PublishEvent(kafka.TopicAccountLocked, key, event)
}

// Close closes the Kafka producer
func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// IsHealthy checks if the publisher is healthy
func (p *KafkaEventPublisher) IsHealthy() bool {
	return p.producer.IsHealthy()
}

// AsyncKafkaEventPublisher publishes events fire-and-forget via the
// async producer. Delivery is best-effort; the ledger itself never
// depends on it.
type AsyncKafkaEventPublisher struct {
	producer *kafka.AsyncProducer
}

// NewAsyncKafkaEventPublisher creates an async Kafka event publisher
func NewAsyncKafkaEventPublisher(config *kafka.Config) (*AsyncKafkaEventPublisher, error) {
	producer, err := kafka.NewAsyncProducer(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create async kafka producer: %w", err)
	}
	return &AsyncKafkaEventPublisher{producer: producer}, nil
}

func (p *AsyncKafkaEventPublisher) PublishTransactionAccepted(event TransactionAcceptedEvent) error {
	key := strconv.Itoa(int(event.Client))
	return p.producer.PublishEventAsync(kafka.TopicTransactionAccepted, key, event)
}

func (p *AsyncKafkaEventPublisher) PublishTransactionRejected(event TransactionRejectedEvent) error {
	key := strconv.Itoa(int(event.Client))
	return p.producer.PublishEventAsync(kafka.TopicTransactionRejected, key, event)
}

func (p *AsyncKafkaEventPublisher) PublishAccountLocked(event AccountLockedEvent) error {
	key := strconv.Itoa(int(event.Client))
	return p.producer.PublishEventAsync(kafka.TopicAccountLocked, key, event)
}

func (p *AsyncKafkaEventPublisher) Close() error {
	return p.producer.Close()
}

func (p *AsyncKafkaEventPublisher) IsHealthy() bool {
	return p.producer.IsHealthy()
}

// NoOpEventPublisher is a no-op implementation used when Kafka is
// disabled and in tests.
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a no-op event publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

func (p *NoOpEventPublisher) PublishTransactionAccepted(event TransactionAcceptedEvent) error {
	return nil
}
func (p *NoOpEventPublisher) PublishTransactionRejected(event TransactionRejectedEvent) error {
	return nil
}
func (p *NoOpEventPublisher) PublishAccountLocked(event AccountLockedEvent) error { return nil }
func (p *NoOpEventPublisher) Close() error                                        { return nil }
func (p *NoOpEventPublisher) IsHealthy() bool                                     { return true }
