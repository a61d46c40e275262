package messaging

import (
	"testing"

	"ledger-api/internal/domain/models"
	"ledger-api/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionToEvent(t *testing.T) {
	tests := []struct {
		name       string
		submission TransactionSubmittedEvent
		want       models.Event
		wantErr    error
	}{
		{
			name:       "deposit",
			submission: TransactionSubmittedEvent{Type: "deposit", Client: 1, Tx: 2, Amount: "10.5"},
			want:       models.NewDeposit(1, 2, decimal.RequireFromString("10.5")),
		},
		{
			name:       "withdrawal",
			submission: TransactionSubmittedEvent{Type: "withdrawal", Client: 1, Tx: 3, Amount: "4"},
			want:       models.NewWithdrawal(1, 3, decimal.RequireFromString("4")),
		},
		{
			name:       "dispute without amount",
			submission: TransactionSubmittedEvent{Type: "dispute", Client: 1, Tx: 2},
			want:       models.NewDispute(1, 2),
		},
		{
			name:       "deposit missing amount",
			submission: TransactionSubmittedEvent{Type: "deposit", Client: 1, Tx: 2},
			wantErr:    errors.ErrMissingAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := tt.submission.toEvent()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Type, evt.Type)
			assert.Equal(t, tt.want.Client, evt.Client)
			assert.Equal(t, tt.want.Tx, evt.Tx)
			assert.True(t, tt.want.Amount.Equal(evt.Amount))
		})
	}
}

func TestSubmissionUnknownTypeFails(t *testing.T) {
	_, err := TransactionSubmittedEvent{Type: "transfer", Client: 1, Tx: 2}.toEvent()
	assert.Error(t, err)
}

func TestEventCaptureRecordsPublishes(t *testing.T) {
	capture := NewEventCapture()

	require.NoError(t, capture.PublishTransactionAccepted(TransactionAcceptedEvent{Type: "deposit", Client: 1, Tx: 1}))
	require.NoError(t, capture.PublishTransactionRejected(TransactionRejectedEvent{Type: "withdrawal", Client: 1, Tx: 2, Code: "INSUFFICIENT_FUNDS"}))
	require.NoError(t, capture.PublishAccountLocked(AccountLockedEvent{Client: 1, Tx: 3}))

	assert.Len(t, capture.Accepted(), 1)
	assert.Len(t, capture.Rejected(), 1)
	assert.Len(t, capture.Locked(), 1)
	assert.Equal(t, "INSUFFICIENT_FUNDS", capture.Rejected()[0].Code)
	assert.True(t, capture.IsHealthy())
}
