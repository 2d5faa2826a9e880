package realtime

import "github.com/google/uuid"

// EventPublisher defines the interface for publishing events to connected clients
type EventPublisher interface {
	// Publish sends an event to all clients connected for the company
	Publish(companyID uuid.UUID, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the company
func (h *Hub) Publish(companyID uuid.UUID, event Event) {
	h.Broadcast(companyID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(companyID uuid.UUID, event Event) {}
