package entities

import (
	"clipshelf/domain/events"
)

// Applier is the polymorphic state-transition hook. Each aggregate implements
// Apply as a type switch over its event kinds; the transition must be a pure
// function of (current state, event) with no side effects, because it runs
// both for live mutation and for full replay. Unknown event types are
// ignored.
type Applier interface {
	Apply(event events.DomainEvent)
}

// Entity is the base unit of the event-sourced model: identity, a monotonic
// sequence number, and an uncommitted-event buffer. The sequence number
// always equals the sequence number of the last applied event.
type Entity struct {
	id            string
	sequenceNo    int
	schemaVersion int
	uncommitted   []events.DomainEvent
	committed     []events.DomainEvent
}

// CurrentSchemaVersion is the shape version stamped on newly created
// entities. Bumped when the persisted projection shape changes
// incompatibly.
const CurrentSchemaVersion = 2

// NewEntity creates an entity base with sequence number zero
func NewEntity(id string) Entity {
	return Entity{
		id:            id,
		schemaVersion: CurrentSchemaVersion,
	}
}

// ID returns the entity's immutable identifier
func (e *Entity) ID() string {
	return e.id
}

// SequenceNo returns the sequence number of the last applied event
func (e *Entity) SequenceNo() int {
	return e.sequenceNo
}

// SchemaVersion returns the entity's shape version
func (e *Entity) SchemaVersion() int {
	return e.schemaVersion
}

// NextSequenceNo returns the sequence number the next emitted event must
// carry
func (e *Entity) NextSequenceNo() int {
	return e.sequenceNo + 1
}

// ApplyEvent is the only path by which entity state changes: it advances the
// sequence number, runs the target's Apply hook, and appends the event to the
// uncommitted buffer. The event must have been constructed with
// NextSequenceNo.
func (e *Entity) ApplyEvent(target Applier, event events.DomainEvent) {
	e.sequenceNo++
	target.Apply(event)
	e.uncommitted = append(e.uncommitted, event)
}

// Hydrate rebuilds state by replaying history through the target's Apply hook
// in the given order. The sequence number is taken from each event's own
// field, not a local counter, so callers must supply events pre-sorted by
// sequence number; gaps or out-of-order input will corrupt state.
func (e *Entity) Hydrate(target Applier, history []events.DomainEvent) {
	e.sequenceNo = 0
	e.uncommitted = nil
	e.committed = nil
	for _, event := range history {
		target.Apply(event)
		e.sequenceNo = event.GetSequenceNo()
		e.committed = append(e.committed, event)
	}
}

// UncommittedEvents returns events that have not been persisted yet
func (e *Entity) UncommittedEvents() []events.DomainEvent {
	return e.uncommitted
}

// CommittedEvents returns the entity's persisted history as replayed or
// committed in this instance's lifetime
func (e *Entity) CommittedEvents() []events.DomainEvent {
	return e.committed
}

// MarkEventsAsCommitted moves the uncommitted buffer into the committed
// history. Call only after the event store has durably persisted the events.
func (e *Entity) MarkEventsAsCommitted() {
	e.committed = append(e.committed, e.uncommitted...)
	e.uncommitted = nil
}
