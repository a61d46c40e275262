package handlers

import (
	"ledger-api/internal/engine"
	"ledger-api/internal/infrastructure/events"
	"ledger-api/internal/infrastructure/messaging"
)

// HandlerDependencies defines the dependencies needed by handlers.
// The interface breaks the circular dependency between the handlers and
// components packages.
type HandlerDependencies interface {
	GetEngine() *engine.Engine
	GetEventBroker() *events.Broker
	GetEventPublisher() messaging.EventPublisher
}
