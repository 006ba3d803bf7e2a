package services

import (
	"context"
	"fmt"

	"clipshelf/application/ports"
	"clipshelf/application/projections"
	"clipshelf/domain/core/aggregates"
	"clipshelf/domain/core/valueobjects"
	"clipshelf/pkg/errors"

	"go.uber.org/zap"
)

// ListService orchestrates the List aggregate lifecycle: it hydrates
// aggregates from the event log, invokes domain behavior, and commits the
// resulting events through the event store. Reads are served from the
// projection store.
type ListService struct {
	store       ports.EventStore
	projections ports.ProjectionStore
	logger      *zap.Logger
}

func NewListService(store ports.EventStore, projectionStore ports.ProjectionStore, logger *zap.Logger) *ListService {
	return &ListService{
		store:       store,
		projections: projectionStore,
		logger:      logger.Named("list_service"),
	}
}

// CreateList creates a new list and returns its projection.
func (s *ListService) CreateList(ctx context.Context, name, icon, color, description string) (*projections.ListProjection, error) {
	list, err := aggregates.NewList(name, icon, color, description)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, list); err != nil {
		return nil, err
	}

	s.logger.Info("list created", zap.String("list_id", list.ID()), zap.String("name", list.Name()))
	return s.projections.GetList(ctx, list.ID())
}

// GetList returns a list's projection, or a not-found error.
func (s *ListService) GetList(ctx context.Context, id string) (*projections.ListProjection, error) {
	record, err := s.projections.GetList(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read list projection")
	}
	if record == nil {
		return nil, errors.NewNotFound(fmt.Sprintf("List %s not found", id))
	}
	return record, nil
}

// GetAllLists returns every live list's projection.
func (s *ListService) GetAllLists(ctx context.Context) ([]*projections.ListProjection, error) {
	records, err := s.projections.AllLists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read list projections")
	}
	return records, nil
}

// UpdateListInput carries the optional metadata changes for UpdateList. Nil
// means "leave unchanged".
type UpdateListInput struct {
	Name        *string
	Icon        *string
	Color       *string
	Description *string
}

// UpdateList applies metadata changes to a list. Unchanged values emit no
// events; the projection reflects the post-mutation state.
func (s *ListService) UpdateList(ctx context.Context, id string, input UpdateListInput) (*projections.ListProjection, error) {
	list, err := s.LoadListFromEvents(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := list.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Icon != nil {
		if err := list.ChangeIcon(*input.Icon); err != nil {
			return nil, err
		}
	}
	if input.Color != nil {
		if err := list.ChangeColor(*input.Color); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if err := list.ChangeDescription(*input.Description); err != nil {
			return nil, err
		}
	}

	if err := s.commit(ctx, list); err != nil {
		return nil, err
	}
	return s.GetList(ctx, id)
}

// DeleteList marks a list deleted. Deleting an already-deleted list is a
// no-op.
func (s *ListService) DeleteList(ctx context.Context, id string) error {
	list, err := s.LoadListFromEvents(ctx, id)
	if err != nil {
		return err
	}

	if err := list.Delete(); err != nil {
		return err
	}
	if err := s.commit(ctx, list); err != nil {
		return err
	}

	s.logger.Info("list deleted", zap.String("list_id", id))
	return nil
}

// LoadListFromEvents hydrates a List aggregate from its event history and
// seeds its membership bookkeeping from the triple projections.
func (s *ListService) LoadListFromEvents(ctx context.Context, id string) (*aggregates.List, error) {
	listID, err := valueobjects.ParseListID(id)
	if err != nil {
		return nil, err
	}

	history, err := s.store.GetEventsByAggregateID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load list history")
	}
	if len(history) == 0 {
		return nil, errors.NewNotFound(fmt.Sprintf("List %s not found", id))
	}

	list := aggregates.ListFromEvents(listID, history)

	refs, err := s.membershipRefs(ctx, id)
	if err != nil {
		return nil, err
	}
	list.RestoreItems(refs)
	return list, nil
}

// membershipRefs materializes the list's current membership from the triple
// projections: CONTAINS facts name the members, ORDERED_BY facts carry their
// positions.
func (s *ListService) membershipRefs(ctx context.Context, listID string) ([]valueobjects.ItemReference, error) {
	facts, err := s.projections.TriplesByObject(ctx, listID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read membership facts")
	}

	var refs []valueobjects.ItemReference
	for _, fact := range facts {
		if !fact.Predicate.IsMembership() {
			continue
		}
		itemID, err := valueobjects.ParseItemID(fact.Subject)
		if err != nil {
			s.logger.Warn("skipping malformed membership fact",
				zap.String("subject", fact.Subject), zap.Error(err))
			continue
		}

		item, err := s.projections.GetItem(ctx, fact.Subject)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read item projection")
		}
		url := "unknown"
		if item != nil {
			url = item.URL
		}

		ref, err := valueobjects.NewItemReference(itemID, url, s.orderFor(ctx, fact.Subject, listID))
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// orderFor reads the item's current ORDERED_BY fact within the list; items
// with no ordering fact sort to the front.
func (s *ListService) orderFor(ctx context.Context, itemID, listID string) int {
	facts, err := s.projections.TriplesBySubject(ctx, itemID)
	if err != nil {
		return 0
	}
	for _, fact := range facts {
		if fact.Predicate != valueobjects.PredicateOrderedBy {
			continue
		}
		if scope, order, ok := valueobjects.ParseOrderedByObject(fact.Object); ok && scope == listID {
			return order
		}
	}
	return 0
}

func (s *ListService) commit(ctx context.Context, list *aggregates.List) error {
	pending := list.GetAllUncommittedEvents()
	if len(pending) == 0 {
		return nil
	}
	if err := s.store.AppendEvents(ctx, pending); err != nil {
		return errors.Wrap(err, "failed to commit list events")
	}
	list.MarkAllEventsAsCommitted()
	return nil
}
