package ports

import (
	"context"

	"clipshelf/application/projections"
	"clipshelf/domain/events"
)

// EventStore is the surface the service layer sees: append-only persistence
// plus retrieval of domain events. Appending an event also applies its
// projection effect synchronously before returning; callers observe log and
// projections as one conceptual transaction (the two writes are not atomic
// at the storage layer — see the rebuilder for the recovery path).
type EventStore interface {
	// AppendEvent persists one event and applies its projection effect
	AppendEvent(ctx context.Context, event events.DomainEvent) error

	// AppendEvents persists events in order, applying each projection
	// effect sequentially
	AppendEvents(ctx context.Context, batch []events.DomainEvent) error

	// GetEventsByAggregateID returns all events across all logs for the
	// aggregate, sorted ascending by sequence number. This is the
	// rehydration query; insertion order is not assumed.
	GetEventsByAggregateID(ctx context.Context, aggregateID string) ([]events.DomainEvent, error)

	// GetAllEvents returns every event, sorted ascending by timestamp.
	// Cross-aggregate sequence numbers are not comparable, so the global
	// scans deliberately order by time instead.
	GetAllEvents(ctx context.Context) ([]events.DomainEvent, error)

	// GetEventsByType returns events of one type, sorted ascending by
	// timestamp
	GetEventsByType(ctx context.Context, eventType string) ([]events.DomainEvent, error)

	// GetLatestEventForAggregate returns the event with the maximum
	// sequence number for the aggregate, or nil when it has none
	GetLatestEventForAggregate(ctx context.Context, aggregateID string) (events.DomainEvent, error)

	// ClearEvents removes every event from every log
	ClearEvents(ctx context.Context) error

	// GetEventCount returns the total number of stored events
	GetEventCount(ctx context.Context) (int, error)

	// IsEmpty reports whether no events are stored
	IsEmpty(ctx context.Context) (bool, error)
}

// EventLog is the raw append-only backend underneath the event store. Events
// are already routed to a family log when they reach it.
type EventLog interface {
	Append(ctx context.Context, family events.Family, event events.DomainEvent) error
	EventsByAggregateID(ctx context.Context, aggregateID string) ([]events.DomainEvent, error)
	AllEvents(ctx context.Context) ([]events.DomainEvent, error)
	EventsByType(ctx context.Context, eventType string) ([]events.DomainEvent, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// ProjectionStore is the raw read-model backend. Only the event store and
// the rebuilder write to it; (subject, predicate, object) is the natural key
// for triples.
type ProjectionStore = projections.Store
