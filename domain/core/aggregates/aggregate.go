package aggregates

import (
	"sort"

	"clipshelf/domain/core/entities"
	"clipshelf/domain/events"
)

// EventCarrier is implemented by child entities whose events the aggregate
// root collects and commits.
type EventCarrier interface {
	UncommittedEvents() []events.DomainEvent
	MarkEventsAsCommitted()
}

// AggregateRoot extends Entity with ownership of child entities and
// aggregate-wide event collection. Child lifetimes are bound to the root.
type AggregateRoot struct {
	entities.Entity
	children []EventCarrier
}

// NewAggregateRoot creates an aggregate root base
func NewAggregateRoot(id string) AggregateRoot {
	return AggregateRoot{Entity: entities.NewEntity(id)}
}

// RegisterChild binds a child entity to this root so its events are collected
// and committed together with the root's
func (a *AggregateRoot) RegisterChild(child EventCarrier) {
	a.children = append(a.children, child)
}

// GetAllUncommittedEvents returns the root's own uncommitted events plus
// every child's, globally sorted ascending by sequence number. The ordering
// is load-bearing: the event store replays in this order.
func (a *AggregateRoot) GetAllUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, 0, len(a.UncommittedEvents()))
	all = append(all, a.UncommittedEvents()...)
	for _, child := range a.children {
		all = append(all, child.UncommittedEvents()...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].GetSequenceNo() < all[j].GetSequenceNo()
	})
	return all
}

// MarkAllEventsAsCommitted commits the root and every child. Atomic from the
// caller's perspective only; there is no partial-commit recovery.
func (a *AggregateRoot) MarkAllEventsAsCommitted() {
	a.MarkEventsAsCommitted()
	for _, child := range a.children {
		child.MarkEventsAsCommitted()
	}
}
