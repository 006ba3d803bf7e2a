package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"clipshelf/application/ports"
	"clipshelf/application/projections"
	"clipshelf/domain/core/aggregates"
	"clipshelf/domain/core/valueobjects"
	"clipshelf/pkg/errors"

	"go.uber.org/zap"
)

// ItemService orchestrates the Item aggregate lifecycle and the item-to-list
// relationship graph. Linking and unlinking go through the List aggregate so
// the membership invariants hold; queries walk the triple projections.
type ItemService struct {
	store       ports.EventStore
	projections ports.ProjectionStore
	lists       *ListService
	logger      *zap.Logger
}

func NewItemService(store ports.EventStore, projectionStore ports.ProjectionStore, lists *ListService, logger *zap.Logger) *ItemService {
	return &ItemService{
		store:       store,
		projections: projectionStore,
		lists:       lists,
		logger:      logger.Named("item_service"),
	}
}

// CreateItemInput carries the clipped page's extracted fields.
type CreateItemInput struct {
	Name        string
	URL         string
	ItemType    string
	JSONLD      map[string]interface{}
	Image       string
	Description string
}

// CreateItem creates an item from a clipped page. Clipping a URL that already
// has a live item returns the existing projection instead of raising a
// conflict; identity derivation makes the operation naturally idempotent.
func (s *ItemService) CreateItem(ctx context.Context, input CreateItemInput) (*projections.ItemProjection, error) {
	existing, err := s.projections.GetItemByURL(ctx, input.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check for existing item")
	}
	if existing != nil {
		s.logger.Debug("item already exists for url",
			zap.String("item_id", existing.ID), zap.String("url", input.URL))
		return existing, nil
	}

	// The projection missed, but the derived identity may still carry
	// history: a previously deleted item whose URL is clipped again must
	// extend that history, or replay would resurrect the old deletion on
	// top of the new creation.
	id, err := aggregates.ItemIdentity(input.URL, input.JSONLD)
	if err != nil {
		return nil, err
	}
	latest, err := s.store.GetLatestEventForAggregate(ctx, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to check item history")
	}
	if latest != nil {
		return s.reclipItem(ctx, id, input)
	}

	item, err := aggregates.NewItem(input.Name, input.URL, input.ItemType,
		input.JSONLD, input.Image, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.String("item_id", item.ID()), zap.String("url", item.URL()))
	return s.projections.GetItem(ctx, item.ID())
}

// reclipItem revives a deleted item's aggregate when its URL is clipped again.
func (s *ItemService) reclipItem(ctx context.Context, id valueobjects.ItemID, input CreateItemInput) (*projections.ItemProjection, error) {
	history, err := s.store.GetEventsByAggregateID(ctx, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load item history")
	}
	item := aggregates.ItemFromEvents(id, history)

	if !item.IsDeleted() {
		// The aggregate is live under a different clip URL (shared @id);
		// hand back its projection like any duplicate clip.
		return s.GetItem(ctx, id.String())
	}

	if err := item.Reclip(input.Name, input.URL, input.ItemType,
		input.JSONLD, input.Image, input.Description); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item reclipped", zap.String("item_id", item.ID()), zap.String("url", item.URL()))
	return s.projections.GetItem(ctx, item.ID())
}

// GetItem returns an item's projection, or a not-found error.
func (s *ItemService) GetItem(ctx context.Context, id string) (*projections.ItemProjection, error) {
	record, err := s.projections.GetItem(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read item projection")
	}
	if record == nil {
		return nil, errors.NewNotFound(fmt.Sprintf("Item %s not found", id))
	}
	return record, nil
}

// UpdateItemInput carries the optional changes for UpdateItem. Nil means
// "leave unchanged"; a non-nil JSONLD replaces the payload wholesale.
type UpdateItemInput struct {
	Name        *string
	Image       *string
	Description *string
	JSONLD      map[string]interface{}
}

// UpdateItem applies metadata changes to an item.
func (s *ItemService) UpdateItem(ctx context.Context, id string, input UpdateItemInput) (*projections.ItemProjection, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := item.UpdateMetadata(input.Name, input.Image, input.Description); err != nil {
		return nil, err
	}
	if input.JSONLD != nil {
		if err := item.UpdateJSONLD(input.JSONLD); err != nil {
			return nil, err
		}
	}

	if err := s.commit(ctx, item); err != nil {
		return nil, err
	}
	return s.GetItem(ctx, id)
}

// DeleteItem marks an item deleted and retracts its membership facts from
// every list that contains it.
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return err
	}

	listIDs, err := s.listIDsForItem(ctx, id)
	if err != nil {
		return err
	}
	for _, listID := range listIDs {
		if err := s.UnlinkItemFromList(ctx, id, listID); err != nil {
			return err
		}
	}

	if err := item.Delete(); err != nil {
		return err
	}
	if err := s.commit(ctx, item); err != nil {
		return err
	}

	s.logger.Info("item deleted", zap.String("item_id", id))
	return nil
}

// LinkItemToList adds an item to a list at the given position.
func (s *ItemService) LinkItemToList(ctx context.Context, itemID, listID string, order int) error {
	record, err := s.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	list, err := s.lists.LoadListFromEvents(ctx, listID)
	if err != nil {
		return err
	}

	parsed, err := valueobjects.ParseItemID(itemID)
	if err != nil {
		return err
	}
	ref, err := valueobjects.NewItemReference(parsed, record.URL, order)
	if err != nil {
		return err
	}

	if err := list.AddItem(ref); err != nil {
		return err
	}
	return s.commitList(ctx, list)
}

// UnlinkItemFromList removes an item from a list.
func (s *ItemService) UnlinkItemFromList(ctx context.Context, itemID, listID string) error {
	list, err := s.lists.LoadListFromEvents(ctx, listID)
	if err != nil {
		return err
	}

	parsed, err := valueobjects.ParseItemID(itemID)
	if err != nil {
		return err
	}

	if err := list.RemoveItem(parsed); err != nil {
		return err
	}
	return s.commitList(ctx, list)
}

// ReorderItemInList moves an item to a new position within a list.
func (s *ItemService) ReorderItemInList(ctx context.Context, itemID, listID string, order int) error {
	list, err := s.lists.LoadListFromEvents(ctx, listID)
	if err != nil {
		return err
	}

	parsed, err := valueobjects.ParseItemID(itemID)
	if err != nil {
		return err
	}

	if err := list.ReorderItem(parsed, order); err != nil {
		return err
	}
	return s.commitList(ctx, list)
}

// GetItemsForList returns the projections of a list's members, sorted by
// their ORDERED_BY positions. Items with no ordering fact sort to the front.
func (s *ItemService) GetItemsForList(ctx context.Context, listID string) ([]*projections.ItemProjection, error) {
	if _, err := s.lists.GetList(ctx, listID); err != nil {
		return nil, err
	}

	facts, err := s.projections.TriplesByObject(ctx, listID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read membership facts")
	}

	type member struct {
		record *projections.ItemProjection
		order  int
	}
	var members []member
	for _, fact := range facts {
		if !fact.Predicate.IsMembership() {
			continue
		}
		record, err := s.projections.GetItem(ctx, fact.Subject)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read item projection")
		}
		if record == nil {
			continue
		}
		members = append(members, member{record: record, order: s.orderFor(ctx, fact.Subject, listID)})
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].order < members[j].order
	})

	result := make([]*projections.ItemProjection, 0, len(members))
	for _, m := range members {
		result = append(result, m.record)
	}
	return result, nil
}

// GetListsForItem returns the projections of every list containing the item.
func (s *ItemService) GetListsForItem(ctx context.Context, itemID string) ([]*projections.ListProjection, error) {
	listIDs, err := s.listIDsForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var result []*projections.ListProjection
	for _, listID := range listIDs {
		record, err := s.projections.GetList(ctx, listID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read list projection")
		}
		if record != nil {
			result = append(result, record)
		}
	}
	return result, nil
}

// GetAllActiveItems returns every live item's projection.
func (s *ItemService) GetAllActiveItems(ctx context.Context) ([]*projections.ItemProjection, error) {
	records, err := s.projections.AllItems(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read item projections")
	}
	return records, nil
}

// SearchItems returns items whose name or description contains the query,
// case-insensitively. An empty query matches everything.
func (s *ItemService) SearchItems(ctx context.Context, query string) ([]*projections.ItemProjection, error) {
	records, err := s.GetAllActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return records, nil
	}

	var result []*projections.ItemProjection
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Name), needle) ||
			strings.Contains(strings.ToLower(record.Description), needle) {
			result = append(result, record)
		}
	}
	return result, nil
}

// GetItemsByType returns items whose structured-data type matches exactly.
func (s *ItemService) GetItemsByType(ctx context.Context, itemType string) ([]*projections.ItemProjection, error) {
	records, err := s.GetAllActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	var result []*projections.ItemProjection
	for _, record := range records {
		if record.ItemType == itemType {
			result = append(result, record)
		}
	}
	return result, nil
}

func (s *ItemService) listIDsForItem(ctx context.Context, itemID string) ([]string, error) {
	facts, err := s.projections.TriplesBySubject(ctx, itemID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read membership facts")
	}

	var listIDs []string
	for _, fact := range facts {
		if fact.Predicate.IsMembership() {
			listIDs = append(listIDs, fact.Object)
		}
	}
	return listIDs, nil
}

func (s *ItemService) orderFor(ctx context.Context, itemID, listID string) int {
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

func (s *ItemService) loadItem(ctx context.Context, id string) (*aggregates.Item, error) {
	itemID, err := valueobjects.ParseItemID(id)
	if err != nil {
		return nil, err
	}

	history, err := s.store.GetEventsByAggregateID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load item history")
	}
	if len(history) == 0 {
		return nil, errors.NewNotFound(fmt.Sprintf("Item %s not found", id))
	}
	return aggregates.ItemFromEvents(itemID, history), nil
}

func (s *ItemService) commit(ctx context.Context, item *aggregates.Item) error {
	pending := item.GetAllUncommittedEvents()
	if len(pending) == 0 {
		return nil
	}
	if err := s.store.AppendEvents(ctx, pending); err != nil {
		return errors.Wrap(err, "failed to commit item events")
	}
	item.MarkAllEventsAsCommitted()
	return nil
}

func (s *ItemService) commitList(ctx context.Context, list *aggregates.List) error {
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
