package events

import (
	"encoding/json"
	"time"

	"clipshelf/pkg/errors"
)

// Encode serializes an event's payload for persistence. The concrete struct
// is marshaled whole, so the stored record round-trips through Decode without
// loss.
func Encode(event DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event payload")
	}
	return data, nil
}

// Decode reconstructs a concrete event from its stored type discriminator and
// payload. Unknown event types decode into a GenericEvent, which every apply
// and projection path silently ignores; future event kinds must not crash
// replay.
func Decode(eventType string, data []byte) (DomainEvent, error) {
	var event DomainEvent
	switch eventType {
	case TypeListCreated:
		event = &ListCreated{}
	case TypeListUpdated:
		event = &ListUpdated{}
	case TypeListDeleted:
		event = &ListDeleted{}
	case TypeItemCreated:
		event = &ItemCreated{}
	case TypeItemUpdated:
		event = &ItemUpdated{}
	case TypeItemDeleted:
		event = &ItemDeleted{}
	case TypeTripleEvent:
		event = &TripleEvent{}
	default:
		generic := &GenericEvent{}
		if err := json.Unmarshal(data, generic); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal unknown event payload")
		}
		generic.EventType = eventType
		return generic, nil
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal event payload")
	}
	return event, nil
}

// GenericEvent is the reconstructed form of an event type this build does not
// know about. It satisfies DomainEvent so it can still be stored, counted,
// and replayed past.
type GenericEvent struct {
	BaseEvent
	Data map[string]interface{} `json:"-"`
}

// UnmarshalJSON keeps both the common fields and the raw payload
func (e *GenericEvent) UnmarshalJSON(data []byte) error {
	type alias struct {
		EventID     string    `json:"event_id"`
		AggregateID string    `json:"aggregate_id"`
		EventType   string    `json:"event_type"`
		SequenceNo  int       `json:"sequence_no"`
		Timestamp   time.Time `json:"timestamp"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	e.BaseEvent = BaseEvent(a)

	raw := map[string]interface{}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Data = raw
	return nil
}
