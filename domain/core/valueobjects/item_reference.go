package valueobjects

import (
	"strings"
)

// ItemReference is an immutable value object describing an item's membership
// in a list: which item, where it came from, and its position.
type ItemReference struct {
	itemID ItemID
	url    string
	order  int
}

// NewItemReference creates a validated ItemReference. Order must be a
// non-negative integer; zero is the front of the list.
func NewItemReference(itemID ItemID, url string, order int) (ItemReference, error) {
	if itemID.IsEmpty() {
		return ItemReference{}, ErrEmptyItemID
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return ItemReference{}, ErrEmptyItemURL
	}
	if order < 0 {
		return ItemReference{}, ErrNegativeItemOrder
	}
	return ItemReference{itemID: itemID, url: url, order: order}, nil
}

// ItemID returns the referenced item's identifier
func (r ItemReference) ItemID() ItemID { return r.itemID }

// URL returns the referenced item's source URL
func (r ItemReference) URL() string { return r.url }

// Order returns the item's position within the list
func (r ItemReference) Order() int { return r.order }

// WithOrder returns a copy with the position replaced
func (r ItemReference) WithOrder(order int) (ItemReference, error) {
	return NewItemReference(r.itemID, r.url, order)
}

// Equals checks if two references point at the same item and position
func (r ItemReference) Equals(other ItemReference) bool {
	return r == other
}
