package events

import (
	"time"
)

// ItemSnapshot carries the full public state of an Item aggregate.
type ItemSnapshot struct {
	Name        string                 `json:"name"`
	URL         string                 `json:"url"`
	ItemType    string                 `json:"item_type"`
	JSONLD      map[string]interface{} `json:"json_ld,omitempty"`
	Image       string                 `json:"image,omitempty"`
	Description string                 `json:"description,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ItemCreated is raised when a new item is clipped
type ItemCreated struct {
	BaseEvent
	ItemSnapshot
}

// NewItemCreated creates an ItemCreated event
func NewItemCreated(itemID string, sequenceNo int, snapshot ItemSnapshot) *ItemCreated {
	return &ItemCreated{
		BaseEvent:    NewBaseEvent(TypeItemCreated, itemID, sequenceNo),
		ItemSnapshot: snapshot,
	}
}

// ItemUpdated is raised when item metadata or structured data changes.
// Unlike list events it may carry a partial snapshot: nil pointer fields mean
// "unchanged", and projection handlers coalesce field by field.
type ItemUpdated struct {
	BaseEvent
	Name        *string                `json:"name,omitempty"`
	Image       *string                `json:"image,omitempty"`
	Description *string                `json:"description,omitempty"`
	JSONLD      map[string]interface{} `json:"json_ld,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewItemUpdated creates an ItemUpdated event carrying only the changed fields
func NewItemUpdated(itemID string, sequenceNo int, name, image, description *string, jsonLD map[string]interface{}, updatedAt time.Time) *ItemUpdated {
	return &ItemUpdated{
		BaseEvent:   NewBaseEvent(TypeItemUpdated, itemID, sequenceNo),
		Name:        name,
		Image:       image,
		Description: description,
		JSONLD:      jsonLD,
		UpdatedAt:   updatedAt,
	}
}

// ItemDeleted is raised when an item is deleted
type ItemDeleted struct {
	BaseEvent
	ItemSnapshot
}

// NewItemDeleted creates an ItemDeleted event
func NewItemDeleted(itemID string, sequenceNo int, snapshot ItemSnapshot) *ItemDeleted {
	return &ItemDeleted{
		BaseEvent:    NewBaseEvent(TypeItemDeleted, itemID, sequenceNo),
		ItemSnapshot: snapshot,
	}
}
