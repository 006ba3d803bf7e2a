package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past; once constructed
// they are never mutated.
type DomainEvent interface {
	// GetEventID returns a unique identifier for this event instance
	GetEventID() string
	// GetEventType returns the type discriminator (e.g. "ListCreated")
	GetEventType() string
	// GetAggregateID returns the ID of the aggregate that owns this event.
	// Relationship events use the subject entity's ID.
	GetAggregateID() string
	// GetSequenceNo returns the 1-based position within the owning
	// aggregate's own event history
	GetSequenceNo() int
	// GetTimestamp returns when the event occurred
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	SequenceNo  int       `json:"sequence_no"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetSequenceNo() int      { return e.SequenceNo }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// NewBaseEvent creates the common portion of an event
func NewBaseEvent(eventType, aggregateID string, sequenceNo int) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		SequenceNo:  sequenceNo,
		Timestamp:   time.Now(),
	}
}

// Family identifies which underlying event log an event is routed to.
type Family string

const (
	// FamilyList is the log holding List* events and, by convention,
	// TripleEvents
	FamilyList Family = "list"
	// FamilyItem is the log holding Item* events
	FamilyItem Family = "item"
	// FamilyUnknown marks event types the router does not recognize
	FamilyUnknown Family = ""
)

// FamilyForType routes an event type to its underlying log. Types prefixed
// with the aggregate family name go to that family's log; TripleEvents share
// the list log.
func FamilyForType(eventType string) Family {
	switch {
	case eventType == TypeTripleEvent:
		return FamilyList
	case strings.HasPrefix(eventType, "List"):
		return FamilyList
	case strings.HasPrefix(eventType, "Item"):
		return FamilyItem
	}
	return FamilyUnknown
}
