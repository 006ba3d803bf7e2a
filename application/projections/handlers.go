package projections

import (
	"clipshelf/domain/core/valueobjects"
	"clipshelf/domain/events"
)

// Per-event fold handlers. Each is a pure function of (current projection or
// nil, event) -> (next projection or nil); nil out means the row is removed.
// Events the handler does not recognize leave the projection untouched —
// unrecognized future event kinds must never crash a fold.

// ApplyListEvent folds one event into a list projection.
func ApplyListEvent(current *ListProjection, event events.DomainEvent) *ListProjection {
	switch e := event.(type) {
	case *events.ListCreated:
		return &ListProjection{
			ID:          e.GetAggregateID(),
			Name:        e.Name,
			Icon:        e.Icon,
			Color:       e.Color,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		}
	case *events.ListUpdated:
		if current == nil {
			// The row is already gone; the update is irrelevant, not
			// an error.
			return nil
		}
		next := *current
		next.Name = e.Name
		next.Icon = e.Icon
		next.Color = e.Color
		next.Description = e.Description
		next.UpdatedAt = e.UpdatedAt
		return &next
	case *events.ListDeleted:
		// Hard delete; the event log remains the durable record.
		return nil
	}
	return current
}

// ApplyItemEvent folds one event into an item projection. ItemUpdated
// payloads may be partial snapshots, so fields coalesce rather than
// overwrite.
func ApplyItemEvent(current *ItemProjection, event events.DomainEvent) *ItemProjection {
	switch e := event.(type) {
	case *events.ItemCreated:
		return &ItemProjection{
			ID:          e.GetAggregateID(),
			Name:        e.Name,
			URL:         e.URL,
			Image:       e.Image,
			Description: e.Description,
			ItemType:    e.ItemType,
			JSONLD:      e.JSONLD,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		}
	case *events.ItemUpdated:
		if current == nil {
			return nil
		}
		next := *current
		if e.Name != nil {
			next.Name = *e.Name
		}
		if e.Image != nil {
			next.Image = *e.Image
		}
		if e.Description != nil {
			next.Description = *e.Description
		}
		if e.JSONLD != nil {
			next.JSONLD = e.JSONLD
		}
		next.UpdatedAt = e.UpdatedAt
		return &next
	case *events.ItemDeleted:
		return nil
	}
	return current
}

// TripleMutation describes the projection effect of one TripleEvent.
type TripleMutation struct {
	// Assert is the fact to insert, when set
	Assert *valueobjects.Triple
	// Retract is the natural key of the fact to remove, when set
	Retract *valueobjects.Triple
	// ReplaceOrdering removes the subject's prior ORDERED_BY facts before
	// asserting, so only the most recent position survives.
	ReplaceOrdering bool
	// ReplaceListID scopes the replacement to one list's ordering facts. An
	// item's position in other lists must survive a reorder in this one.
	// Empty means the asserted object carries no list scope, and every
	// ordering fact for the subject is replaced.
	ReplaceListID string
}

// TripleMutationFor maps a TripleEvent to its relationship-table effect.
// Events with an unknown predicate or operation yield nil and are skipped.
func TripleMutationFor(event *events.TripleEvent) *TripleMutation {
	predicate, err := valueobjects.ParsePredicate(event.Predicate)
	if err != nil {
		return nil
	}

	triple := valueobjects.NewTriple(event.Subject, predicate, event.Object)

	switch event.Op {
	case events.TripleOpAssert:
		mutation := &TripleMutation{Assert: &triple}
		if predicate == valueobjects.PredicateOrderedBy {
			mutation.ReplaceOrdering = true
			if listID, _, ok := valueobjects.ParseOrderedByObject(event.Object); ok {
				mutation.ReplaceListID = listID
			}
		}
		return mutation
	case events.TripleOpRetract:
		return &TripleMutation{Retract: &triple}
	}
	return nil
}
