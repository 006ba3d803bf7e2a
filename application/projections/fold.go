package projections

import (
	"context"

	"clipshelf/domain/core/valueobjects"
	"clipshelf/domain/events"
	"clipshelf/pkg/errors"
)

// Store is the write surface the fold needs. The persistence backends
// implement it; only the event store and the rebuilder ever hold one.
type Store interface {
	GetList(ctx context.Context, id string) (*ListProjection, error)
	PutList(ctx context.Context, record *ListProjection) error
	DeleteList(ctx context.Context, id string) error
	AllLists(ctx context.Context) ([]*ListProjection, error)

	GetItem(ctx context.Context, id string) (*ItemProjection, error)
	GetItemByURL(ctx context.Context, url string) (*ItemProjection, error)
	PutItem(ctx context.Context, record *ItemProjection) error
	DeleteItem(ctx context.Context, id string) error
	AllItems(ctx context.Context) ([]*ItemProjection, error)

	PutTriple(ctx context.Context, triple valueobjects.Triple) error
	DeleteTriple(ctx context.Context, subject string, predicate valueobjects.Predicate, object string) error
	DeleteTriplesBySubjectPredicate(ctx context.Context, subject string, predicate valueobjects.Predicate) error
	TriplesBySubject(ctx context.Context, subject string) ([]valueobjects.Triple, error)
	TriplesByObject(ctx context.Context, object string) ([]valueobjects.Triple, error)

	ClearProjections(ctx context.Context) error
}

// Fold applies a single event's projection effect to the store. Events whose
// type the fold does not recognize are skipped without error.
func Fold(ctx context.Context, store Store, event events.DomainEvent) error {
	switch event.(type) {
	case *events.ListCreated, *events.ListUpdated, *events.ListDeleted:
		return foldList(ctx, store, event)
	case *events.ItemCreated, *events.ItemUpdated, *events.ItemDeleted:
		return foldItem(ctx, store, event)
	case *events.TripleEvent:
		return foldTriple(ctx, store, event.(*events.TripleEvent))
	}
	return nil
}

func foldList(ctx context.Context, store Store, event events.DomainEvent) error {
	id := event.GetAggregateID()
	current, err := store.GetList(ctx, id)
	if err != nil {
		return errors.Wrap(err, "failed to read list projection")
	}

	next := ApplyListEvent(current, event)
	switch {
	case next == nil && current != nil:
		return store.DeleteList(ctx, id)
	case next != nil:
		return store.PutList(ctx, next)
	}
	return nil
}

func foldItem(ctx context.Context, store Store, event events.DomainEvent) error {
	id := event.GetAggregateID()
	current, err := store.GetItem(ctx, id)
	if err != nil {
		return errors.Wrap(err, "failed to read item projection")
	}

	next := ApplyItemEvent(current, event)
	switch {
	case next == nil && current != nil:
		return store.DeleteItem(ctx, id)
	case next != nil:
		return store.PutItem(ctx, next)
	}
	return nil
}

func foldTriple(ctx context.Context, store Store, event *events.TripleEvent) error {
	mutation := TripleMutationFor(event)
	if mutation == nil {
		return nil
	}

	if mutation.Retract != nil {
		t := mutation.Retract
		return store.DeleteTriple(ctx, t.Subject, t.Predicate, t.Object)
	}

	if mutation.ReplaceOrdering {
		if err := replaceOrderingFacts(ctx, store, mutation); err != nil {
			return errors.Wrap(err, "failed to replace ordering fact")
		}
	}
	return store.PutTriple(ctx, *mutation.Assert)
}

// replaceOrderingFacts drops the subject's prior ORDERED_BY facts scoped to
// the asserting list. Facts for other lists stay put. Unscoped asserts fall
// back to replacing every ordering fact for the subject.
func replaceOrderingFacts(ctx context.Context, store Store, mutation *TripleMutation) error {
	subject := mutation.Assert.Subject
	predicate := mutation.Assert.Predicate

	if mutation.ReplaceListID == "" {
		return store.DeleteTriplesBySubjectPredicate(ctx, subject, predicate)
	}

	facts, err := store.TriplesBySubject(ctx, subject)
	if err != nil {
		return err
	}
	for _, fact := range facts {
		if fact.Predicate != predicate {
			continue
		}
		listID, _, ok := valueobjects.ParseOrderedByObject(fact.Object)
		if ok && listID != mutation.ReplaceListID {
			continue
		}
		if err := store.DeleteTriple(ctx, fact.Subject, fact.Predicate, fact.Object); err != nil {
			return err
		}
	}
	return nil
}
