package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names domain events published through the outbox.
type EventType string

const (
	EventOrderPlaced         EventType = "order.placed"
	EventOrderItemTransition EventType = "order.item_transitioned"
	EventOrderCancelled      EventType = "order.cancelled"
	EventArtistStatusChanged EventType = "artist.status_changed"
	EventProductListed       EventType = "product.listed"
)

// Event is an outbox record awaiting publication.
type Event struct {
	ID          uuid.UUID
	AggregateID string
	Type        EventType
	Payload     json.RawMessage
	CreatedAt   time.Time
	Attempts    int
}

// NewEvent marshals payload into a fresh event.
func NewEvent(eventType EventType, aggregateID string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:          uuid.New(),
		AggregateID: aggregateID,
		Type:        eventType,
		Payload:     raw,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
