package valueobjects

import (
	"strconv"
	"strings"
	"time"
)

// Predicate is the closed enumeration of relationship kinds between entities.
type Predicate string

const (
	// PredicateContains links an item (subject) to the list (object) holding it
	PredicateContains Predicate = "CONTAINS"
	// PredicateOrderedBy records an item's position within a list
	PredicateOrderedBy Predicate = "ORDERED_BY"
	// PredicateBelongsTo is the inverse membership form kept for older facts
	PredicateBelongsTo Predicate = "BELONGS_TO"
	// PredicateTaggedWith links an entity to a tag entity
	PredicateTaggedWith Predicate = "TAGGED_WITH"
	// PredicateRelatedTo is a generic association between two entities
	PredicateRelatedTo Predicate = "RELATED_TO"
)

// ParsePredicate validates a string against the closed enumeration
func ParsePredicate(value string) (Predicate, error) {
	switch Predicate(value) {
	case PredicateContains, PredicateOrderedBy, PredicateBelongsTo,
		PredicateTaggedWith, PredicateRelatedTo:
		return Predicate(value), nil
	}
	return "", ErrInvalidPredicate
}

// String returns the string representation of the predicate
func (p Predicate) String() string {
	return string(p)
}

// IsMembership reports whether the predicate expresses list membership
func (p Predicate) IsMembership() bool {
	return p == PredicateContains || p == PredicateBelongsTo
}

// OrderedByObject encodes a list-scoped position as the object of an
// ORDERED_BY fact. Positions are scoped to the list so the same item can hold
// a different position in every list that contains it.
func OrderedByObject(listID string, position int) string {
	return listID + ":" + strconv.Itoa(position)
}

// ParseOrderedByObject splits an ORDERED_BY object back into its list id and
// position. ok is false for objects in any other shape, such as facts written
// before positions were list-scoped.
func ParseOrderedByObject(object string) (listID string, position int, ok bool) {
	i := strings.LastIndex(object, ":")
	if i <= 0 {
		return "", 0, false
	}
	position, err := strconv.Atoi(object[i+1:])
	if err != nil || position < 0 {
		return "", 0, false
	}
	return object[:i], position, true
}

// Triple is a subject-predicate-object relationship fact between two
// entities. It is not an aggregate: triples are derived records materialized
// from TripleEvents by the projection layer. The (subject, predicate, object)
// tuple is the natural key.
type Triple struct {
	Subject   string    `json:"subject"`
	Predicate Predicate `json:"predicate"`
	Object    string    `json:"object"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTriple creates a relationship fact stamped with the current time
func NewTriple(subject string, predicate Predicate, object string) Triple {
	return Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
		CreatedAt: time.Now(),
	}
}

// Key returns the natural-key representation used for uniqueness checks
func (t Triple) Key() string {
	return t.Subject + "|" + string(t.Predicate) + "|" + t.Object
}
