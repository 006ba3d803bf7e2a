package events

// Event type discriminators. The "List"/"Item" prefixes are load-bearing:
// the event store routes events to the underlying logs by prefix.
const (
	TypeListCreated = "ListCreated"
	TypeListUpdated = "ListUpdated"
	TypeListDeleted = "ListDeleted"

	TypeItemCreated = "ItemCreated"
	TypeItemUpdated = "ItemUpdated"
	TypeItemDeleted = "ItemDeleted"

	TypeTripleEvent = "TripleEvent"
)

// Triple event operations.
const (
	// TripleOpAssert creates a relationship fact
	TripleOpAssert = "ASSERT"
	// TripleOpRetract removes a relationship fact
	TripleOpRetract = "RETRACT"
)
