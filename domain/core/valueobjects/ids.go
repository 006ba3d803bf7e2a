package valueobjects

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ListID is a value object that ensures valid list identifiers.
// New list IDs are minted as a time+random token so they sort roughly by
// creation time while staying collision free.
type ListID struct {
	value string
}

// NewListID creates a new ListID from the current time and a random suffix
func NewListID() ListID {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return ListID{value: fmt.Sprintf("list-%d-%s", time.Now().UnixMilli(), suffix)}
}

// ParseListID creates a ListID from an existing string
func ParseListID(id string) (ListID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ListID{}, ErrEmptyListID
	}
	return ListID{value: id}, nil
}

// String returns the string representation of the ListID
func (id ListID) String() string {
	return id.value
}

// Equals checks if two ListIDs are equal
func (id ListID) Equals(other ListID) bool {
	return id.value == other.value
}

// IsEmpty checks if the ListID is empty
func (id ListID) IsEmpty() bool {
	return id.value == ""
}

// ItemID is a value object for item identifiers. Item IDs are derived from
// the item's source identity (its JSON-LD @id when present, otherwise its
// URL), so clipping the same page twice yields the same ID and items
// deduplicate naturally.
type ItemID struct {
	value string
}

// DeriveItemID computes the ItemID for an item's source identity.
// The hash is truncated to 128 bits, which is plenty for a single-user store.
func DeriveItemID(source string) (ItemID, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return ItemID{}, ErrEmptyItemSource
	}
	sum := sha256.Sum256([]byte(source))
	return ItemID{value: "item-" + hex.EncodeToString(sum[:16])}, nil
}

// ParseItemID creates an ItemID from an existing string
func ParseItemID(id string) (ItemID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ItemID{}, ErrEmptyItemID
	}
	return ItemID{value: id}, nil
}

// String returns the string representation of the ItemID
func (id ItemID) String() string {
	return id.value
}

// Equals checks if two ItemIDs are equal
func (id ItemID) Equals(other ItemID) bool {
	return id.value == other.value
}

// IsEmpty checks if the ItemID is empty
func (id ItemID) IsEmpty() bool {
	return id.value == ""
}
