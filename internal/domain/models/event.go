package models

import (
	"github.com/shopspring/decimal"
)

// ClientID identifies a client account. Up to 65,536 unique clients (0 through 65,535).
type ClientID uint16

// TxID identifies a transaction. Monetary transaction IDs are globally
// unique across the engine's lifetime.
type TxID uint32

// EventType discriminates the five supported ledger events.
type EventType string

const (
	EventDeposit    EventType = "deposit"
	EventWithdrawal EventType = "withdrawal"
	EventDispute    EventType = "dispute"
	EventResolve    EventType = "resolve"
	EventChargeback EventType = "chargeback"
)

// Event is a single ledger event as dispatched to the engine. Amount is
// only meaningful for deposit and withdrawal; it is zero otherwise.
type Event struct {
	Type   EventType
	Client ClientID
	Tx     TxID
	Amount decimal.Decimal
}

// Monetary reports whether the event carries funds and is therefore
// subject to transaction-ID deduplication.
func (e Event) Monetary() bool {
	return e.Type == EventDeposit || e.Type == EventWithdrawal
}

func NewDeposit(client ClientID, tx TxID, amount decimal.Decimal) Event {
	return Event{Type: EventDeposit, Client: client, Tx: tx, Amount: amount}
}

func NewWithdrawal(client ClientID, tx TxID, amount decimal.Decimal) Event {
	return Event{Type: EventWithdrawal, Client: client, Tx: tx, Amount: amount}
}

func NewDispute(client ClientID, tx TxID) Event {
	return Event{Type: EventDispute, Client: client, Tx: tx}
}

func NewResolve(client ClientID, tx TxID) Event {
	return Event{Type: EventResolve, Client: client, Tx: tx}
}

func NewChargeback(client ClientID, tx TxID) Event {
	return Event{Type: EventChargeback, Client: client, Tx: tx}
}
