package aggregates

import (
	"fmt"
	"reflect"
	"time"

	"clipshelf/domain/core/valueobjects"
	"clipshelf/domain/events"
	"clipshelf/pkg/errors"
)

// Item is the aggregate for a single clipped web entity. Its identity is
// derived from the source's @id (or URL when no @id is present), so clipping
// the same page twice resolves to the same aggregate.
type Item struct {
	AggregateRoot

	name        string
	url         string
	itemType    string
	jsonLD      map[string]interface{}
	image       string
	description string
	createdAt   time.Time
	updatedAt   time.Time
	deleted     bool
}

// ItemIdentity derives the aggregate id a clip of this source resolves to.
// The structured data's @id wins over the page URL when present, so the same
// canonical entity clipped from different URLs shares one aggregate.
func ItemIdentity(url string, jsonLD map[string]interface{}) (valueobjects.ItemID, error) {
	source := url
	if atID, ok := jsonLD["@id"].(string); ok && atID != "" {
		source = atID
	}
	return valueobjects.DeriveItemID(source)
}

// NewItem creates an item via the factory pattern, emitting ItemCreated.
// The jsonLD payload is opaque to the aggregate.
func NewItem(name, url, itemType string, jsonLD map[string]interface{}, image, description string) (*Item, error) {
	if name == "" {
		return nil, errors.NewValidation("item name is required")
	}
	if itemType == "" {
		return nil, valueobjects.ErrEmptyItemType
	}

	id, err := ItemIdentity(url, jsonLD)
	if err != nil {
		return nil, err
	}

	item := &Item{AggregateRoot: NewAggregateRoot(id.String())}

	now := time.Now()
	event := events.NewItemCreated(id.String(), item.NextSequenceNo(), events.ItemSnapshot{
		Name:        name,
		URL:         url,
		ItemType:    itemType,
		JSONLD:      jsonLD,
		Image:       image,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	item.ApplyEvent(item, event)

	return item, nil
}

// ItemFromEvents reconstructs an item by replaying its history. Events must
// be pre-sorted ascending by sequence number.
func ItemFromEvents(id valueobjects.ItemID, history []events.DomainEvent) *Item {
	item := &Item{AggregateRoot: NewAggregateRoot(id.String())}
	item.Hydrate(item, history)
	return item
}

// Apply is the state-transition hook for item events.
func (i *Item) Apply(event events.DomainEvent) {
	switch e := event.(type) {
	case *events.ItemCreated:
		// A re-clip after deletion extends the history with a fresh
		// ItemCreated, so creation also clears the deleted flag.
		i.deleted = false
		i.name = e.Name
		i.url = e.URL
		i.itemType = e.ItemType
		i.jsonLD = e.JSONLD
		i.image = e.Image
		i.description = e.Description
		i.createdAt = e.CreatedAt
		i.updatedAt = e.UpdatedAt
	case *events.ItemUpdated:
		if e.Name != nil {
			i.name = *e.Name
		}
		if e.Image != nil {
			i.image = *e.Image
		}
		if e.Description != nil {
			i.description = *e.Description
		}
		if e.JSONLD != nil {
			i.jsonLD = e.JSONLD
		}
		i.updatedAt = e.UpdatedAt
	case *events.ItemDeleted:
		i.deleted = true
		i.updatedAt = e.UpdatedAt
	case *events.TripleEvent:
		i.updatedAt = e.GetTimestamp()
	}
}

// Getters

// Name returns the item's display name
func (i *Item) Name() string { return i.name }

// URL returns the item's source URL
func (i *Item) URL() string { return i.url }

// ItemType returns the structured-data type tag
func (i *Item) ItemType() string { return i.itemType }

// JSONLD returns the opaque structured-data payload
func (i *Item) JSONLD() map[string]interface{} { return i.jsonLD }

// Image returns the item's image URL
func (i *Item) Image() string { return i.image }

// Description returns the item's description
func (i *Item) Description() string { return i.description }

// CreatedAt returns when the item was first clipped
func (i *Item) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns when the item last changed
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// IsDeleted reports whether the item has been deleted
func (i *Item) IsDeleted() bool { return i.deleted }

// UpdateMetadata changes the item's name, image, or description. Nil means
// "leave unchanged"; if nothing actually changes no event is emitted. The
// resulting ItemUpdated carries only the changed fields.
func (i *Item) UpdateMetadata(name, image, description *string) error {
	if i.deleted {
		return ErrItemDeleted
	}

	if name != nil && *name == i.name {
		name = nil
	}
	if image != nil && *image == i.image {
		image = nil
	}
	if description != nil && *description == i.description {
		description = nil
	}
	if name == nil && image == nil && description == nil {
		return nil
	}
	if name != nil && *name == "" {
		return errors.NewValidation("item name is required")
	}

	event := events.NewItemUpdated(i.ID(), i.NextSequenceNo(), name, image, description, nil, time.Now())
	i.ApplyEvent(i, event)
	return nil
}

// UpdateJSONLD replaces the structured-data payload. A deep-equal payload is
// a no-op.
func (i *Item) UpdateJSONLD(jsonLD map[string]interface{}) error {
	if i.deleted {
		return ErrItemDeleted
	}
	if reflect.DeepEqual(i.jsonLD, jsonLD) {
		return nil
	}

	event := events.NewItemUpdated(i.ID(), i.NextSequenceNo(), nil, nil, nil, jsonLD, time.Now())
	i.ApplyEvent(i, event)
	return nil
}

// Reclip restores a deleted item with freshly extracted fields. The new
// ItemCreated continues the existing sequence, so replaying the full history
// lands on the live post-reclip state rather than the earlier deletion.
func (i *Item) Reclip(name, url, itemType string, jsonLD map[string]interface{}, image, description string) error {
	if !i.deleted {
		return errors.NewConflict(fmt.Sprintf("Item %s already exists", i.ID()))
	}
	if name == "" {
		return errors.NewValidation("item name is required")
	}
	if itemType == "" {
		return valueobjects.ErrEmptyItemType
	}

	now := time.Now()
	event := events.NewItemCreated(i.ID(), i.NextSequenceNo(), events.ItemSnapshot{
		Name:        name,
		URL:         url,
		ItemType:    itemType,
		JSONLD:      jsonLD,
		Image:       image,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	i.ApplyEvent(i, event)
	return nil
}

// Delete marks the item deleted, emitting ItemDeleted exactly once.
func (i *Item) Delete() error {
	if i.deleted {
		return nil
	}

	event := events.NewItemDeleted(i.ID(), i.NextSequenceNo(), events.ItemSnapshot{
		Name:        i.name,
		URL:         i.url,
		ItemType:    i.itemType,
		JSONLD:      i.jsonLD,
		Image:       i.image,
		Description: i.description,
		CreatedAt:   i.createdAt,
		UpdatedAt:   time.Now(),
	})
	i.ApplyEvent(i, event)
	return nil
}
