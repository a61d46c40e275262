package events_test

import (
	"testing"
	"time"

	"ledger-api/internal/domain/models"
	"ledger-api/internal/infrastructure/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversToSubscribers(t *testing.T) {
	broker := events.NewBroker()
	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	evt := models.TransactionEvent{
		Type:      "deposit",
		Client:    1,
		Tx:        1,
		Amount:    decimal.NewFromInt(100),
		Timestamp: time.Now(),
	}
	go broker.Publish(evt)

	select {
	case got := <-ch:
		assert.Equal(t, models.ClientID(1), got.Client)
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	broker := events.NewBroker()
	ch := broker.Subscribe()
	broker.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
