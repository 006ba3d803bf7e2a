package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clipshelf/application/ports"
	"clipshelf/domain/events"
	"clipshelf/pkg/errors"
)

// EventLog persists domain events in two family tables. Events are stored as
// their JSON payload plus indexed envelope columns; retrieval decodes the
// payload back into the concrete event type.
type EventLog struct {
	db *sql.DB
}

var _ ports.EventLog = (*EventLog)(nil)

func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

func tableForFamily(family events.Family) string {
	if family == events.FamilyItem {
		return "item_events"
	}
	return "list_events"
}

func (l *EventLog) Append(ctx context.Context, family events.Family, event events.DomainEvent) error {
	payload, err := events.Encode(event)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (event_id, aggregate_id, event_type, sequence_no, timestamp, payload)
		VALUES (?, ?, ?, ?, ?, ?)`, tableForFamily(family))
	_, err = l.db.ExecContext(ctx, query,
		event.GetEventID(),
		event.GetAggregateID(),
		event.GetEventType(),
		event.GetSequenceNo(),
		event.GetTimestamp().UTC().Format(time.RFC3339Nano),
		string(payload),
	)
	if err != nil {
		return errors.Wrap(err, "failed to append event")
	}
	return nil
}

func (l *EventLog) EventsByAggregateID(ctx context.Context, aggregateID string) ([]events.DomainEvent, error) {
	// An aggregate's events live in exactly one family table, but the log
	// does not know which, so both are scanned. Ordering happens above.
	query := `
		SELECT event_type, payload FROM list_events WHERE aggregate_id = ?
		UNION ALL
		SELECT event_type, payload FROM item_events WHERE aggregate_id = ?`
	return l.queryEvents(ctx, query, aggregateID, aggregateID)
}

func (l *EventLog) AllEvents(ctx context.Context) ([]events.DomainEvent, error) {
	query := `
		SELECT event_type, payload FROM list_events
		UNION ALL
		SELECT event_type, payload FROM item_events`
	return l.queryEvents(ctx, query)
}

func (l *EventLog) EventsByType(ctx context.Context, eventType string) ([]events.DomainEvent, error) {
	query := fmt.Sprintf(`SELECT event_type, payload FROM %s WHERE event_type = ?`,
		tableForFamily(events.FamilyForType(eventType)))
	return l.queryEvents(ctx, query, eventType)
}

func (l *EventLog) Clear(ctx context.Context) error {
	for _, table := range []string{"list_events", "item_events"} {
		if _, err := l.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return errors.Wrap(err, "failed to clear event log")
		}
	}
	return nil
}

func (l *EventLog) Count(ctx context.Context) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(1) FROM list_events) + (SELECT COUNT(1) FROM item_events)`).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count events")
	}
	return count, nil
}

func (l *EventLog) queryEvents(ctx context.Context, query string, args ...interface{}) ([]events.DomainEvent, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events")
	}
	defer rows.Close()

	var result []events.DomainEvent
	for rows.Next() {
		var eventType, payload string
		if err := rows.Scan(&eventType, &payload); err != nil {
			return nil, errors.Wrap(err, "failed to scan event row")
		}
		event, err := events.Decode(eventType, []byte(payload))
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate events")
	}
	return result, nil
}
