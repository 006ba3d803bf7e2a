package events

// TripleEvent records the assertion or retraction of a subject-predicate-
// object relationship fact. The aggregate ID is the subject entity's ID, and
// the sequence number comes from the aggregate that emitted the event (the
// list performing addItem/removeItem/reorderItem). TripleEvents are routed to
// the shared list log.
type TripleEvent struct {
	BaseEvent
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Op        string `json:"op"`
}

// NewTripleEvent creates a TripleEvent for the given fact
func NewTripleEvent(sequenceNo int, subject, predicate, object, op string) *TripleEvent {
	return &TripleEvent{
		BaseEvent: NewBaseEvent(TypeTripleEvent, subject, sequenceNo),
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
		Op:        op,
	}
}
