package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ledger-api/internal/pkg/logging"
	metrics "ledger-api/internal/pkg/telemetry"

	"github.com/IBM/sarama"
)

// AsyncProducer wraps a Kafka async producer with error monitoring. Used
// for fire-and-forget event publishing when request latency matters more
// than delivery guarantees.
type AsyncProducer struct {
	producer sarama.AsyncProducer
	config   *Config

	errorCount   atomic.Int64
	successCount atomic.Int64
	droppedCount atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	lastReportTime time.Time
	reportInterval time.Duration
}

// ProducerMetrics holds current producer statistics
type ProducerMetrics struct {
	SuccessCount int64
	ErrorCount   int64
	DroppedCount int64
	ErrorRate    float64
}

// NewAsyncProducer creates a new async Kafka producer
func NewAsyncProducer(config *Config) (*AsyncProducer, error) {
	saramaConfig, err := config.ToSaramaConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create sarama config: %w", err)
	}

	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.Return.Successes = false

	// Fire-and-forget throughput configuration
	saramaConfig.Producer.RequiredAcks = sarama.NoResponse
	saramaConfig.Producer.Flush.Frequency = 10 * time.Millisecond
	saramaConfig.Producer.Flush.Messages = 1000
	saramaConfig.ChannelBufferSize = 100000

	producer, err := sarama.NewAsyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create async kafka producer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	ap := &AsyncProducer{
		producer:       producer,
		config:         config,
		ctx:            ctx,
		cancel:         cancel,
		lastReportTime: time.Now(),
		reportInterval: 30 * time.Second,
	}

	ap.wg.Add(1)
	go ap.monitorErrors()

	ap.wg.Add(1)
	go ap.reportMetrics()

	logging.Info("Async Kafka producer initialized", map[string]interface{}{
		"brokers":       config.Brokers,
		"client_id":     config.ClientID,
		"required_acks": "none",
	})

	return ap, nil
}

// PublishEventAsync publishes an event without waiting for the broker.
func (ap *AsyncProducer) PublishEventAsync(topic string, key string, event interface{}) error {
	ap.mu.RLock()
	if ap.closed {
		ap.mu.RUnlock()
		ap.droppedCount.Add(1)
		return fmt.Errorf("producer is closed")
	}
	ap.mu.RUnlock()

	eventJSON, err := json.Marshal(event)
	if err != nil {
		ap.droppedCount.Add(1)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(eventJSON),
	}

	select {
	case ap.producer.Input() <- msg:
		ap.successCount.Add(1)
		return nil
	case <-time.After(100 * time.Millisecond):
		// Queue is full, drop the message rather than stall the caller.
		ap.droppedCount.Add(1)
		logging.Warn("Event dropped - producer queue full", map[string]interface{}{
			"topic":         topic,
			"key":           key,
			"dropped_total": ap.droppedCount.Load(),
		})
		metrics.RecordEventDropped("queue_full")
		return fmt.Errorf("producer queue full - event dropped")
	case <-ap.ctx.Done():
		ap.droppedCount.Add(1)
		return fmt.Errorf("producer shutting down")
	}
}

// monitorErrors drains the producer error channel
func (ap *AsyncProducer) monitorErrors() {
	defer ap.wg.Done()

	for {
		select {
		case err := <-ap.producer.Errors():
			if err == nil {
				continue
			}
			ap.errorCount.Add(1)
			logging.Error("Kafka producer error", err.Err, map[string]interface{}{
				"topic":       err.Msg.Topic,
				"error_count": ap.errorCount.Load(),
			})
			metrics.RecordEventPublishingError("kafka_error")
		case <-ap.ctx.Done():
			return
		}
	}
}

// reportMetrics periodically logs producer statistics
func (ap *AsyncProducer) reportMetrics() {
	defer ap.wg.Done()

	ticker := time.NewTicker(ap.reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := ap.GetMetrics()
			logging.Info("Kafka producer metrics", map[string]interface{}{
				"success_count": stats.SuccessCount,
				"error_count":   stats.ErrorCount,
				"dropped_count": stats.DroppedCount,
				"error_rate":    fmt.Sprintf("%.2f%%", stats.ErrorRate),
			})

			if stats.DroppedCount > 0 {
				logging.Warn("Kafka producer dropping messages", map[string]interface{}{
					"dropped_count": stats.DroppedCount,
				})
			}
		case <-ap.ctx.Done():
			return
		}
	}
}

// GetMetrics returns current producer statistics
func (ap *AsyncProducer) GetMetrics() ProducerMetrics {
	successCount := ap.successCount.Load()
	errorCount := ap.errorCount.Load()

	total := successCount + errorCount
	errorRate := 0.0
	if total > 0 {
		errorRate = float64(errorCount) / float64(total) * 100.0
	}

	return ProducerMetrics{
		SuccessCount: successCount,
		ErrorCount:   errorCount,
		DroppedCount: ap.droppedCount.Load(),
		ErrorRate:    errorRate,
	}
}

// Close shuts the producer down and waits for the monitors to stop.
func (ap *AsyncProducer) Close() error {
	ap.mu.Lock()
	if ap.closed {
		ap.mu.Unlock()
		return nil
	}
	ap.closed = true
	ap.mu.Unlock()

	ap.cancel()
	ap.producer.AsyncClose()
	ap.wg.Wait()
	return nil
}

// IsHealthy checks if the producer is accepting events
func (ap *AsyncProducer) IsHealthy() bool {
	ap.mu.RLock()
	defer ap.mu.RUnlock()
	return !ap.closed
}
