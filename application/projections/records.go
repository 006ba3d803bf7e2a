package projections

import (
	"time"

	"clipshelf/domain/core/valueobjects"
)

// Read-optimized records derived from the event log. Projections are never
// written directly by application code; the event store exclusively owns
// their mutation, and the event log remains the durable source of truth.

// ListProjection mirrors a List aggregate's snapshot
type ListProjection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemProjection mirrors an Item aggregate's snapshot
type ItemProjection struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	URL         string                 `json:"url"`
	Image       string                 `json:"image,omitempty"`
	Description string                 `json:"description,omitempty"`
	ItemType    string                 `json:"item_type"`
	JSONLD      map[string]interface{} `json:"json_ld,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// TripleProjection mirrors a relationship fact
type TripleProjection = valueobjects.Triple
