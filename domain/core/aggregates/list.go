package aggregates

import (
	"fmt"
	"time"

	"clipshelf/domain/core/valueobjects"
	"clipshelf/domain/events"
	"clipshelf/pkg/errors"
)

// List is the aggregate for a named, user-curated collection of items.
// Metadata mutations emit List* events carrying a full snapshot of the
// post-mutation state. Item membership and ordering are expressed purely
// through TripleEvents: the aggregate deliberately keeps no replayable item
// collection, and relationship consistency lives in the projection layer.
type List struct {
	AggregateRoot

	metadata  valueobjects.ListMetadata
	createdAt time.Time
	updatedAt time.Time
	deleted   bool

	// items is session-local bookkeeping for the membership invariants
	// (no duplicate adds, no removal of absent items). It is seeded by the
	// service layer from the triple projections after hydration and is
	// never rebuilt from events.
	items map[string]valueobjects.ItemReference
}

// NewList creates a list via the factory pattern, validating metadata before
// any event is constructed and emitting ListCreated.
func NewList(name, icon, color, description string) (*List, error) {
	metadata, err := valueobjects.NewListMetadata(name, icon, color, description)
	if err != nil {
		return nil, err
	}

	id := valueobjects.NewListID()
	list := &List{
		AggregateRoot: NewAggregateRoot(id.String()),
		items:         make(map[string]valueobjects.ItemReference),
	}

	now := time.Now()
	event := events.NewListCreated(id.String(), list.NextSequenceNo(), events.ListSnapshot{
		Name:        metadata.Name(),
		Icon:        metadata.Icon(),
		Color:       metadata.Color(),
		Description: metadata.Description(),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	list.ApplyEvent(list, event)

	return list, nil
}

// ListFromEvents reconstructs a list by replaying its history. Events must be
// pre-sorted ascending by sequence number.
func ListFromEvents(id valueobjects.ListID, history []events.DomainEvent) *List {
	list := &List{
		AggregateRoot: NewAggregateRoot(id.String()),
		items:         make(map[string]valueobjects.ItemReference),
	}
	list.Hydrate(list, history)
	return list
}

// Apply is the state-transition hook for list events. Relationship events
// only bump updatedAt; membership is materialized by the projection layer.
func (l *List) Apply(event events.DomainEvent) {
	switch e := event.(type) {
	case *events.ListCreated:
		l.applySnapshot(e.ListSnapshot)
	case *events.ListUpdated:
		l.applySnapshot(e.ListSnapshot)
	case *events.ListDeleted:
		l.deleted = true
		l.updatedAt = e.UpdatedAt
	case *events.TripleEvent:
		l.updatedAt = e.GetTimestamp()
	}
}

func (l *List) applySnapshot(snapshot events.ListSnapshot) {
	metadata, err := valueobjects.NewListMetadata(snapshot.Name, snapshot.Icon, snapshot.Color, snapshot.Description)
	if err != nil {
		// Snapshots were produced from validated metadata; keep prior
		// state if a historic payload no longer validates.
		return
	}
	l.metadata = metadata
	l.createdAt = snapshot.CreatedAt
	l.updatedAt = snapshot.UpdatedAt
}

// Getters

// Name returns the list's name
func (l *List) Name() string { return l.metadata.Name() }

// Icon returns the list's icon
func (l *List) Icon() string { return l.metadata.Icon() }

// Color returns the list's color
func (l *List) Color() string { return l.metadata.Color() }

// Description returns the list's description
func (l *List) Description() string { return l.metadata.Description() }

// Metadata returns the list's metadata value object
func (l *List) Metadata() valueobjects.ListMetadata { return l.metadata }

// CreatedAt returns when the list was created
func (l *List) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns when the list last changed
func (l *List) UpdatedAt() time.Time { return l.updatedAt }

// IsDeleted reports whether the list has been deleted
func (l *List) IsDeleted() bool { return l.deleted }

// Metadata mutators. Each rejects mutation of a deleted list, short-circuits
// with no event when the value is unchanged, and otherwise emits ListUpdated
// with a full snapshot of the new state.

// Rename changes the list's name
func (l *List) Rename(name string) error {
	return l.updateMetadata(func(m valueobjects.ListMetadata) (valueobjects.ListMetadata, bool, error) {
		if m.Name() == name {
			return m, false, nil
		}
		next, err := m.WithName(name)
		return next, true, err
	})
}

// ChangeIcon changes the list's icon
func (l *List) ChangeIcon(icon string) error {
	return l.updateMetadata(func(m valueobjects.ListMetadata) (valueobjects.ListMetadata, bool, error) {
		if m.Icon() == icon {
			return m, false, nil
		}
		next, err := m.WithIcon(icon)
		return next, true, err
	})
}

// ChangeColor changes the list's color
func (l *List) ChangeColor(color string) error {
	return l.updateMetadata(func(m valueobjects.ListMetadata) (valueobjects.ListMetadata, bool, error) {
		if m.Color() == color {
			return m, false, nil
		}
		next, err := m.WithColor(color)
		return next, true, err
	})
}

// ChangeDescription changes the list's description
func (l *List) ChangeDescription(description string) error {
	return l.updateMetadata(func(m valueobjects.ListMetadata) (valueobjects.ListMetadata, bool, error) {
		if m.Description() == description {
			return m, false, nil
		}
		next, err := m.WithDescription(description)
		return next, true, err
	})
}

func (l *List) updateMetadata(change func(valueobjects.ListMetadata) (valueobjects.ListMetadata, bool, error)) error {
	if l.deleted {
		return ErrListDeleted
	}

	next, changed, err := change(l.metadata)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	now := time.Now()
	event := events.NewListUpdated(l.ID(), l.NextSequenceNo(), events.ListSnapshot{
		Name:        next.Name(),
		Icon:        next.Icon(),
		Color:       next.Color(),
		Description: next.Description(),
		CreatedAt:   l.createdAt,
		UpdatedAt:   now,
	})
	l.ApplyEvent(l, event)
	return nil
}

// Delete marks the list deleted, emitting ListDeleted exactly once.
func (l *List) Delete() error {
	if l.deleted {
		return nil
	}

	event := events.NewListDeleted(l.ID(), l.NextSequenceNo(), events.ListSnapshot{
		Name:        l.metadata.Name(),
		Icon:        l.metadata.Icon(),
		Color:       l.metadata.Color(),
		Description: l.metadata.Description(),
		CreatedAt:   l.createdAt,
		UpdatedAt:   time.Now(),
	})
	l.ApplyEvent(l, event)
	return nil
}

// Relationship mutation. These methods never touch replayable list state:
// they emit TripleEvents and trust the event store's projection-update path
// to materialize the relationship table.

// AddItem links an item to this list, emitting CONTAINS and ORDERED_BY facts.
func (l *List) AddItem(ref valueobjects.ItemReference) error {
	if l.deleted {
		return ErrListDeleted
	}
	itemID := ref.ItemID().String()
	if _, exists := l.items[itemID]; exists {
		return errors.NewConflict(fmt.Sprintf("Item %s is already in the list", itemID))
	}
	l.items[itemID] = ref

	l.ApplyEvent(l, events.NewTripleEvent(l.NextSequenceNo(),
		itemID, valueobjects.PredicateContains.String(), l.ID(), events.TripleOpAssert))
	l.ApplyEvent(l, events.NewTripleEvent(l.NextSequenceNo(),
		itemID, valueobjects.PredicateOrderedBy.String(),
		valueobjects.OrderedByObject(l.ID(), ref.Order()), events.TripleOpAssert))
	return nil
}

// RemoveItem unlinks an item from this list, retracting its membership and
// ordering facts.
func (l *List) RemoveItem(itemID valueobjects.ItemID) error {
	if l.deleted {
		return ErrListDeleted
	}
	key := itemID.String()
	ref, exists := l.items[key]
	if !exists {
		return errors.NewConflict(fmt.Sprintf("Item %s is not in the list", key))
	}
	delete(l.items, key)

	l.ApplyEvent(l, events.NewTripleEvent(l.NextSequenceNo(),
		key, valueobjects.PredicateContains.String(), l.ID(), events.TripleOpRetract))
	l.ApplyEvent(l, events.NewTripleEvent(l.NextSequenceNo(),
		key, valueobjects.PredicateOrderedBy.String(),
		valueobjects.OrderedByObject(l.ID(), ref.Order()), events.TripleOpRetract))
	return nil
}

// ReorderItem moves an item to a new position, asserting a fresh ORDERED_BY
// fact. The projection layer keeps only the most recent ordering fact per
// item per list.
func (l *List) ReorderItem(itemID valueobjects.ItemID, order int) error {
	if l.deleted {
		return ErrListDeleted
	}
	key := itemID.String()
	ref, exists := l.items[key]
	if !exists {
		return errors.NewConflict(fmt.Sprintf("Item %s is not in the list", key))
	}
	next, err := ref.WithOrder(order)
	if err != nil {
		return err
	}
	l.items[key] = next

	l.ApplyEvent(l, events.NewTripleEvent(l.NextSequenceNo(),
		key, valueobjects.PredicateOrderedBy.String(),
		valueobjects.OrderedByObject(l.ID(), order), events.TripleOpAssert))
	return nil
}

// RestoreItems seeds the membership bookkeeping from previously materialized
// references. Used by the service layer right after hydration; emits no
// events.
func (l *List) RestoreItems(refs []valueobjects.ItemReference) {
	for _, ref := range refs {
		l.items[ref.ItemID().String()] = ref
	}
}

// ContainsItem reports whether this instance knows the item as a member
func (l *List) ContainsItem(itemID valueobjects.ItemID) bool {
	_, ok := l.items[itemID.String()]
	return ok
}
