package events

import (
	"time"
)

// ListSnapshot carries the full public state of a List aggregate at the time
// of a mutation. List events embed the whole snapshot rather than a diff so
// the payload is self-sufficient for both projection building and replay.
type ListSnapshot struct {
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListCreated is raised when a new list is created
type ListCreated struct {
	BaseEvent
	ListSnapshot
}

// NewListCreated creates a ListCreated event
func NewListCreated(listID string, sequenceNo int, snapshot ListSnapshot) *ListCreated {
	return &ListCreated{
		BaseEvent:    NewBaseEvent(TypeListCreated, listID, sequenceNo),
		ListSnapshot: snapshot,
	}
}

// ListUpdated is raised when list metadata changes (rename, icon, color,
// description). The snapshot reflects the post-mutation state.
type ListUpdated struct {
	BaseEvent
	ListSnapshot
}

// NewListUpdated creates a ListUpdated event
func NewListUpdated(listID string, sequenceNo int, snapshot ListSnapshot) *ListUpdated {
	return &ListUpdated{
		BaseEvent:    NewBaseEvent(TypeListUpdated, listID, sequenceNo),
		ListSnapshot: snapshot,
	}
}

// ListDeleted is raised when a list is deleted
type ListDeleted struct {
	BaseEvent
	ListSnapshot
}

// NewListDeleted creates a ListDeleted event
func NewListDeleted(listID string, sequenceNo int, snapshot ListSnapshot) *ListDeleted {
	return &ListDeleted{
		BaseEvent:    NewBaseEvent(TypeListDeleted, listID, sequenceNo),
		ListSnapshot: snapshot,
	}
}
