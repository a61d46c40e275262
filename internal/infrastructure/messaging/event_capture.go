package messaging

import "sync"

// EventCapture is an in-memory event publisher for testing. It captures
// all published events and allows verification in tests.
type EventCapture struct {
	accepted []TransactionAcceptedEvent
	rejected []TransactionRejectedEvent
	locked   []AccountLockedEvent
	mu       sync.RWMutex
}

// NewEventCapture creates a new event capture publisher
func NewEventCapture() *EventCapture {
	return &EventCapture{}
}

func (e *EventCapture) PublishTransactionAccepted(event TransactionAcceptedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.accepted = append(e.accepted, event)
	return nil
}

func (e *EventCapture) PublishTransactionRejected(event TransactionRejectedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rejected = append(e.rejected, event)
	return nil
}

func (e *EventCapture) PublishAccountLocked(event AccountLockedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.locked = append(e.locked, event)
	return nil
}

func (e *EventCapture) Close() error    { return nil }
func (e *EventCapture) IsHealthy() bool { return true }

// Accepted returns a copy of captured accepted events.
func (e *EventCapture) Accepted() []TransactionAcceptedEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]TransactionAcceptedEvent, len(e.accepted))
	copy(out, e.accepted)
	return out
}

// Rejected returns a copy of captured rejected events.
func (e *EventCapture) Rejected() []TransactionRejectedEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]TransactionRejectedEvent, len(e.rejected))
	copy(out, e.rejected)
	return out
}

// Locked returns a copy of captured account-locked events.
func (e *EventCapture) Locked() []AccountLockedEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]AccountLockedEvent, len(e.locked))
	copy(out, e.locked)
	return out
}
