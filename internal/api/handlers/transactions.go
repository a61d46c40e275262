package handlers

import (
	stderrors "errors"
	"net/http"
	"time"

	"ledger-api/internal/domain/models"
	"ledger-api/internal/infrastructure/messaging"
	"ledger-api/internal/pkg/errors"
	"ledger-api/internal/pkg/logging"
	metrics "ledger-api/internal/pkg/telemetry"
	"ledger-api/internal/pkg/validation"

	"github.com/gin-gonic/gin"
)

// transactionRequest is the POST /transactions DTO. Amount is a decimal
// string; absent for dispute/resolve/chargeback.
type transactionRequest struct {
	Type   string `json:"type" binding:"required"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount"`
}

// toEvent validates the DTO and produces an engine event.
func (r transactionRequest) toEvent() (models.Event, error) {
	client := models.ClientID(r.Client)
	tx := models.TxID(r.Tx)

	switch models.EventType(r.Type) {
	case models.EventDeposit, models.EventWithdrawal:
		amount, err := validation.ParseAmount(r.Amount)
		if err != nil {
			return models.Event{}, err
		}
		if models.EventType(r.Type) == models.EventDeposit {
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
		return models.Event{}, errors.ErrTransactionNotFound
	}
}

// MakeProcessTransactionHandler handles POST /transactions.
func MakeProcessTransactionHandler(container HandlerDependencies) gin.HandlerFunc {
	eng := container.GetEngine()
	broker := container.GetEventBroker()
	publisher := container.GetEventPublisher()

	return func(c *gin.Context) {
		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		evt, err := req.toEvent()
		if err != nil {
			rejectTransaction(c, publisher, req, err)
			return
		}

		if err := eng.Process(evt); err != nil {
			rejectTransaction(c, publisher, req, err)
			return
		}

		snapshot, _ := eng.GetAccount(evt.Client)

		metrics.RecordTransaction(req.Type, "accepted")
		if evt.Monetary() {
			metrics.RecordTransactionAmount(evt.Amount.InexactFloat64())
		}
		metrics.UpdateEngineGauges(float64(eng.AccountCount()), float64(eng.TransactionCount()))

		broker.Publish(models.TransactionEvent{
			Type:      req.Type,
			Client:    evt.Client,
			Tx:        evt.Tx,
			Amount:    evt.Amount,
			Available: snapshot.Available,
			Held:      snapshot.Held,
			Total:     snapshot.Total,
			Locked:    snapshot.Locked,
			Timestamp: time.Now().UTC(),
		})

		accepted := messaging.TransactionAcceptedEvent{
			Type:      req.Type,
			Client:    req.Client,
			Tx:        req.Tx,
			Amount:    req.Amount,
			Available: snapshot.Available.String(),
			Held:      snapshot.Held.String(),
			Total:     snapshot.Total.String(),
			Locked:    snapshot.Locked,
			Timestamp: time.Now().UTC(),
		}
		if err := publisher.PublishTransactionAccepted(accepted); err != nil {
			logging.Error("Failed to publish accepted event", err, map[string]interface{}{
				"client": req.Client,
				"tx":     req.Tx,
			})
			// Don't fail the request if event publishing fails
		}

		if evt.Type == models.EventChargeback && snapshot.Locked {
			metrics.RecordAccountLocked()
			if err := publisher.PublishAccountLocked(messaging.AccountLockedEvent{
				Client:    req.Client,
				Tx:        req.Tx,
				Timestamp: time.Now().UTC(),
			}); err != nil {
				logging.Error("Failed to publish account locked event", err, nil)
			}
		}

		c.JSON(http.StatusCreated, snapshot)
	}
}

func rejectTransaction(c *gin.Context, publisher messaging.EventPublisher, req transactionRequest, err error) {
	metrics.RecordTransaction(req.Type, errorCode(err))

	var txErr *errors.TransactionError
	if !stderrors.As(err, &txErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logging.Warn("Transaction rejected", map[string]interface{}{
		"type":   req.Type,
		"client": req.Client,
		"tx":     req.Tx,
		"code":   txErr.Code,
	})

	rejection := messaging.TransactionRejectedEvent{
		Type:      req.Type,
		Client:    req.Client,
		Tx:        req.Tx,
		Amount:    req.Amount,
		Code:      txErr.Code,
		Reason:    txErr.Message,
		Timestamp: time.Now().UTC(),
	}
	if pubErr := publisher.PublishTransactionRejected(rejection); pubErr != nil {
		logging.Error("Failed to publish rejection", pubErr, nil)
	}

	c.JSON(txErr.Status, txErr)
}

func errorCode(err error) string {
	var txErr *errors.TransactionError
	if stderrors.As(err, &txErr) {
		return txErr.Code
	}
	return "INTERNAL"
}
