package persistence

import (
	"context"
	"sort"

	"clipshelf/application/ports"
	"clipshelf/application/projections"
	"clipshelf/domain/events"
	"clipshelf/pkg/errors"
	"clipshelf/pkg/observability"

	"go.uber.org/zap"
)

// EventStore routes events to the underlying logs, persists them, and applies
// each event's projection effect synchronously before returning. Log append
// and projection update form one conceptual transaction from the caller's
// point of view, but they are two separate writes at the storage layer; the
// projection rebuilder is the recovery path when they diverge.
type EventStore struct {
	log         ports.EventLog
	projections ports.ProjectionStore
	logger      *zap.Logger
	metrics     *observability.Collector
}

// NewEventStore creates the event store over a log backend and a projection
// store
func NewEventStore(log ports.EventLog, projectionStore ports.ProjectionStore, logger *zap.Logger, metrics *observability.Collector) *EventStore {
	return &EventStore{
		log:         log,
		projections: projectionStore,
		logger:      logger,
		metrics:     metrics,
	}
}

var _ ports.EventStore = (*EventStore)(nil)

// AppendEvent persists one event and applies its projection effect.
func (s *EventStore) AppendEvent(ctx context.Context, event events.DomainEvent) error {
	family := events.FamilyForType(event.GetEventType())
	if family == events.FamilyUnknown {
		// Unknown types are retained in the shared list log so a future
		// build can fold them, but they have no projection effect now.
		family = events.FamilyList
		s.logger.Debug("appending event of unknown type",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()))
	}

	if err := s.log.Append(ctx, family, event); err != nil {
		if s.metrics != nil {
			s.metrics.AppendErrors.Inc()
		}
		return errors.Wrap(err, "failed to append event")
	}
	if s.metrics != nil {
		s.metrics.EventsAppended.WithLabelValues(event.GetEventType()).Inc()
	}

	if err := projections.Fold(ctx, s.projections, event); err != nil {
		// The event is durable but the read model now lags; a rebuild
		// reconciles them.
		s.logger.Error("projection update failed after append",
			zap.String("event_id", event.GetEventID()),
			zap.String("event_type", event.GetEventType()),
			zap.Error(err))
		return errors.Wrap(err, "failed to update projection")
	}
	if s.metrics != nil {
		s.metrics.ProjectionFolds.WithLabelValues(event.GetEventType()).Inc()
	}
	return nil
}

// AppendEvents persists a batch in order. Each event's projection effect is
// applied in a sequential loop; there is no fan-out and no rollback of
// already-applied effects if a later append fails.
func (s *EventStore) AppendEvents(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		if err := s.AppendEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// GetEventsByAggregateID returns the aggregate's events across all logs,
// sorted ascending by sequence number. This is the rehydration query.
func (s *EventStore) GetEventsByAggregateID(ctx context.Context, aggregateID string) ([]events.DomainEvent, error) {
	result, err := s.log.EventsByAggregateID(ctx, aggregateID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events by aggregate")
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].GetSequenceNo() < result[j].GetSequenceNo()
	})
	return result, nil
}

// GetAllEvents returns every event sorted ascending by timestamp.
// Cross-aggregate sequence numbers are not comparable, so global scans order
// by time.
func (s *EventStore) GetAllEvents(ctx context.Context) ([]events.DomainEvent, error) {
	result, err := s.log.AllEvents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan events")
	}
	sortByTimestamp(result)
	return result, nil
}

// GetEventsByType returns events of one type sorted ascending by timestamp
func (s *EventStore) GetEventsByType(ctx context.Context, eventType string) ([]events.DomainEvent, error) {
	result, err := s.log.EventsByType(ctx, eventType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events by type")
	}
	sortByTimestamp(result)
	return result, nil
}

// GetLatestEventForAggregate returns the aggregate's highest-sequence event,
// or nil when it has none
func (s *EventStore) GetLatestEventForAggregate(ctx context.Context, aggregateID string) (events.DomainEvent, error) {
	history, err := s.GetEventsByAggregateID(ctx, aggregateID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	return history[len(history)-1], nil
}

// ClearEvents removes every event from every log
func (s *EventStore) ClearEvents(ctx context.Context) error {
	return s.log.Clear(ctx)
}

// GetEventCount returns the total number of stored events
func (s *EventStore) GetEventCount(ctx context.Context) (int, error) {
	return s.log.Count(ctx)
}

// IsEmpty reports whether no events are stored
func (s *EventStore) IsEmpty(ctx context.Context) (bool, error) {
	count, err := s.log.Count(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func sortByTimestamp(result []events.DomainEvent) {
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].GetTimestamp().Before(result[j].GetTimestamp())
	})
}
