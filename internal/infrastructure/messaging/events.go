package messaging

import "time"

// TransactionSubmittedEvent is the wire shape consumed from the
// submissions topic. Amount is a decimal string; empty for
// dispute/resolve/chargeback.
type TransactionSubmittedEvent struct {
	OperationID string    `json:"operation_id"` // UUID assigned by the producer
	Type        string    `json:"type"`
	Client      uint16    `json:"client"`
	Tx          uint32    `json:"tx"`
	Amount      string    `json:"amount,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// TransactionAcceptedEvent represents a successfully applied transaction.
type TransactionAcceptedEvent struct {
	Type      string    `json:"type"`
	Client    uint16    `json:"client"`
	Tx        uint32    `json:"tx"`
	Amount    string    `json:"amount,omitempty"`
	Available string    `json:"available"`
	Held      string    `json:"held"`
	Total     string    `json:"total"`
	Locked    bool      `json:"locked"`
	Timestamp time.Time `json:"timestamp"`
}

// TransactionRejectedEvent represents a rejected transaction for the
// audit trail.
type TransactionRejectedEvent struct {
	Type      string    `json:"type"`
	Client    uint16    `json:"client"`
	Tx        uint32    `json:"tx"`
	Amount    string    `json:"amount,omitempty"`
	Code      string    `json:"code"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// AccountLockedEvent is emitted when a chargeback freezes an account.
type AccountLockedEvent struct {
	Client    uint16    `json:"client"`
	Tx        uint32    `json:"tx"`
	Timestamp time.Time `json:"timestamp"`
}
