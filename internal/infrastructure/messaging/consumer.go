package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	stderrors "errors"

	"ledger-api/internal/domain/models"
	"ledger-api/internal/engine"
	"ledger-api/internal/infrastructure/messaging/kafka"
	"ledger-api/internal/pkg/errors"
	"ledger-api/internal/pkg/logging"
	"ledger-api/internal/pkg/validation"

	"github.com/IBM/sarama"
)

const submissionsConsumerGroup = "ledger-submission-processor-group"

// TransactionConsumer drains transaction submissions from Kafka into the
// engine. Delivery is at-least-once with manual commits; the engine's
// transaction registry makes redelivered monetary events idempotent, so
// a duplicate claim commits the offset and moves on.
type TransactionConsumer struct {
	consumerGroup sarama.ConsumerGroup
	engine        *engine.Engine
	publisher     EventPublisher
	config        *kafka.Config
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewTransactionConsumer creates a new submissions consumer
func NewTransactionConsumer(config *kafka.Config, eng *engine.Engine, publisher EventPublisher) (*TransactionConsumer, error) {
	saramaConfig, err := config.ToSaramaConfig()
	if err != nil {
		return nil, err
	}

	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.NewBalanceStrategyRoundRobin(),
	}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true

	// At-least-once: commit manually once each message has been handled
	// (applied, rejected or skipped).
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = false

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, submissionsConsumerGroup, saramaConfig)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &TransactionConsumer{
		consumerGroup: consumerGroup,
		engine:        eng,
		publisher:     publisher,
		config:        config,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Start begins consuming transaction submissions
func (c *TransactionConsumer) Start() error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		handler := &submissionHandler{
			engine:    c.engine,
			publisher: c.publisher,
		}
		topics := []string{kafka.TopicTransactionSubmissions}

		for {
			// Consume must be called in a loop: a server-side rebalance
			// ends the session and a new one has to be created.
			if err := c.consumerGroup.Consume(c.ctx, topics, handler); err != nil {
				logging.Error("Consumer session failed", err, nil)
			}
			if c.ctx.Err() != nil {
				return
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case err, ok := <-c.consumerGroup.Errors():
				if !ok {
					return
				}
				logging.Error("Consumer group error", err, nil)
			case <-c.ctx.Done():
				return
			}
		}
	}()

	logging.Info("Transaction consumer started", map[string]interface{}{
		"group": submissionsConsumerGroup,
		"topic": kafka.TopicTransactionSubmissions,
	})
	return nil
}

// Stop gracefully stops the consumer
func (c *TransactionConsumer) Stop() error {
	c.cancel()
	c.wg.Wait()
	return c.consumerGroup.Close()
}

// submissionHandler implements sarama.ConsumerGroupHandler
type submissionHandler struct {
	engine    *engine.Engine
	publisher EventPublisher
}

func (h *submissionHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *submissionHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *submissionHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.handle(message)
			session.MarkMessage(message, "")
			session.Commit()
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *submissionHandler) handle(message *sarama.ConsumerMessage) {
	var submission TransactionSubmittedEvent
	if err := json.Unmarshal(message.Value, &submission); err != nil {
		logging.Warn("Skipping malformed submission", map[string]interface{}{
			"offset": message.Offset,
			"error":  err.Error(),
		})
		return
	}

	evt, err := submission.toEvent()
	if err != nil {
		logging.Warn("Skipping invalid submission", map[string]interface{}{
			"operation_id": submission.OperationID,
			"error":        err.Error(),
		})
		return
	}

	if err := h.engine.Process(evt); err != nil {
		// Redelivery of an already-claimed monetary event is the expected
		// at-least-once overlap, not a business rejection.
		if stderrors.Is(err, errors.ErrDuplicateTransaction) {
			logging.Debug("Submission already processed", map[string]interface{}{
				"operation_id": submission.OperationID,
				"tx":           submission.Tx,
			})
			return
		}

		var txErr *errors.TransactionError
		code := "INTERNAL"
		if stderrors.As(err, &txErr) {
			code = txErr.Code
		}
		rejection := TransactionRejectedEvent{
			Type:      submission.Type,
			Client:    submission.Client,
			Tx:        submission.Tx,
			Amount:    submission.Amount,
			Code:      code,
			Reason:    err.Error(),
			Timestamp: time.Now().UTC(),
		}
		if pubErr := h.publisher.PublishTransactionRejected(rejection); pubErr != nil {
			logging.Error("Failed to publish rejection", pubErr, nil)
		}
		return
	}

	snapshot, _ := h.engine.GetAccount(models.ClientID(submission.Client))
	accepted := TransactionAcceptedEvent{
		Type:      submission.Type,
		Client:    submission.Client,
		Tx:        submission.Tx,
		Amount:    submission.Amount,
		Available: snapshot.Available.String(),
		Held:      snapshot.Held.String(),
		Total:     snapshot.Total.String(),
		Locked:    snapshot.Locked,
		Timestamp: time.Now().UTC(),
	}
	if err := h.publisher.PublishTransactionAccepted(accepted); err != nil {
		logging.Error("Failed to publish accepted event", err, nil)
	}
}

// toEvent converts a wire submission into an engine event.
func (s TransactionSubmittedEvent) toEvent() (models.Event, error) {
	client := models.ClientID(s.Client)
	tx := models.TxID(s.Tx)

	switch models.EventType(s.Type) {
	case models.EventDeposit, models.EventWithdrawal:
		amount, err := validation.ParseAmount(s.Amount)
		if err != nil {
			return models.Event{}, err
		}
		if models.EventType(s.Type) == models.EventDeposit {
			return models.NewDeposit(client, tx, amount), nil
		}
		return models.NewWithdrawal(client, tx, amount), nil
	case models.EventDispute:
		return models.NewDispute(client, tx), nil
	case models.EventResolve:
		return models.NewResolve(client, tx), nil
	case models.EventChargeback:
		return models.NewChargeback(client, tx), nil
	default:
		return models.Event{}, fmt.Errorf("unknown transaction type: %q", s.Type)
	}
}
