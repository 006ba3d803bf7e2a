package memory

import (
	"context"
	"sync"

	"clipshelf/application/ports"
	"clipshelf/domain/events"
)

// EventLog is an in-memory implementation of the event log backend, used by
// tests and as the reference implementation. Events are held in two family
// logs mirroring the durable layout.
type EventLog struct {
	mu      sync.RWMutex
	listLog []events.DomainEvent
	itemLog []events.DomainEvent
}

// NewEventLog creates an empty in-memory event log
func NewEventLog() *EventLog {
	return &EventLog{}
}

var _ ports.EventLog = (*EventLog)(nil)

// Append stores the event in the routed family log
func (l *EventLog) Append(ctx context.Context, family events.Family, event events.DomainEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if family == events.FamilyItem {
		l.itemLog = append(l.itemLog, event)
		return nil
	}
	l.listLog = append(l.listLog, event)
	return nil
}

// EventsByAggregateID scans both logs; ordering is left to the caller
func (l *EventLog) EventsByAggregateID(ctx context.Context, aggregateID string) ([]events.DomainEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []events.DomainEvent
	for _, log := range [][]events.DomainEvent{l.listLog, l.itemLog} {
		for _, event := range log {
			if event.GetAggregateID() == aggregateID {
				result = append(result, event)
			}
		}
	}
	return result, nil
}

// AllEvents returns every stored event
func (l *EventLog) AllEvents(ctx context.Context) ([]events.DomainEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]events.DomainEvent, 0, len(l.listLog)+len(l.itemLog))
	result = append(result, l.listLog...)
	result = append(result, l.itemLog...)
	return result, nil
}

// EventsByType returns events with the given type discriminator
func (l *EventLog) EventsByType(ctx context.Context, eventType string) ([]events.DomainEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []events.DomainEvent
	for _, log := range [][]events.DomainEvent{l.listLog, l.itemLog} {
		for _, event := range log {
			if event.GetEventType() == eventType {
				result = append(result, event)
			}
		}
	}
	return result, nil
}

// Clear empties both logs
func (l *EventLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.listLog = nil
	l.itemLog = nil
	return nil
}

// Count returns the total number of stored events
func (l *EventLog) Count(ctx context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.listLog) + len(l.itemLog), nil
}
