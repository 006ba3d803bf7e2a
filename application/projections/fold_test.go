package projections_test

import (
	"context"
	"testing"
	"time"

	"clipshelf/application/projections"
	"clipshelf/domain/core/valueobjects"
	"clipshelf/domain/events"
	"clipshelf/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listCreated(id string, seq int, name string) *events.ListCreated {
	now := time.Now()
	return events.NewListCreated(id, seq, events.ListSnapshot{
		Name: name, Icon: "book", CreatedAt: now, UpdatedAt: now,
	})
}

func TestFold_ListLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProjectionStore()

	require.NoError(t, projections.Fold(ctx, store, listCreated("list-1", 1, "Reading")))

	record, err := store.GetList(ctx, "list-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Reading", record.Name)

	update := events.NewListUpdated("list-1", 2, events.ListSnapshot{
		Name: "Watching", Icon: "film", CreatedAt: record.CreatedAt, UpdatedAt: time.Now(),
	})
	require.NoError(t, projections.Fold(ctx, store, update))

	record, err = store.GetList(ctx, "list-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Watching", record.Name)
	assert.Equal(t, "film", record.Icon)
	// Creation time is preserved across updates
	assert.Equal(t, "list-1", record.ID)

	deleted := events.NewListDeleted("list-1", 3, events.ListSnapshot{Name: "Watching", Icon: "film"})
	require.NoError(t, projections.Fold(ctx, store, deleted))

	record, err = store.GetList(ctx, "list-1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFold_UpdateForMissingListIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProjectionStore()

	update := events.NewListUpdated("list-gone", 5, events.ListSnapshot{Name: "X", Icon: "y"})
	require.NoError(t, projections.Fold(ctx, store, update))

	record, err := store.GetList(ctx, "list-gone")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFold_ItemUpdateCoalescesFields(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProjectionStore()

	now := time.Now()
	created := events.NewItemCreated("item-1", 1, events.ItemSnapshot{
		Name: "Original", URL: "https://example.com/a", ItemType: "Article",
		Image: "https://example.com/img.png", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, projections.Fold(ctx, store, created))

	name := "Renamed"
	update := events.NewItemUpdated("item-1", 2, &name, nil, nil, nil, time.Now())
	require.NoError(t, projections.Fold(ctx, store, update))

	record, err := store.GetItem(ctx, "item-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Renamed", record.Name)
	// Fields absent from the partial snapshot keep their prior values
	assert.Equal(t, "https://example.com/img.png", record.Image)
	assert.Equal(t, "Article", record.ItemType)
}

func TestFold_TripleAssertAndRetract(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProjectionStore()

	assertEvent := events.NewTripleEvent(1, "item-1", "CONTAINS", "list-1", events.TripleOpAssert)
	require.NoError(t, projections.Fold(ctx, store, assertEvent))

	facts, err := store.TriplesBySubject(ctx, "item-1")
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, valueobjects.PredicateContains, facts[0].Predicate)

	// Asserting the same fact twice keeps one row
	require.NoError(t, projections.Fold(ctx, store, assertEvent))
	facts, err = store.TriplesBySubject(ctx, "item-1")
	require.NoError(t, err)
	assert.Len(t, facts, 1)

	retract := events.NewTripleEvent(2, "item-1", "CONTAINS", "list-1", events.TripleOpRetract)
	require.NoError(t, projections.Fold(ctx, store, retract))

	facts, err = store.TriplesBySubject(ctx, "item-1")
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestFold_OrderedByReplacesWithinList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProjectionStore()

	inReading := events.NewTripleEvent(1, "item-1", "ORDERED_BY",
		valueobjects.OrderedByObject("list-1", 0), events.TripleOpAssert)
	require.NoError(t, projections.Fold(ctx, store, inReading))
	inLater := events.NewTripleEvent(2, "item-1", "ORDERED_BY",
		valueobjects.OrderedByObject("list-2", 2), events.TripleOpAssert)
	require.NoError(t, projections.Fold(ctx, store, inLater))

	// Reordering within list-1 replaces only the list-1 fact
	moved := events.NewTripleEvent(3, "item-1", "ORDERED_BY",
		valueobjects.OrderedByObject("list-1", 4), events.TripleOpAssert)
	require.NoError(t, projections.Fold(ctx, store, moved))

	facts, err := store.TriplesBySubject(ctx, "item-1")
	require.NoError(t, err)
	require.Len(t, facts, 2)
	objects := []string{facts[0].Object, facts[1].Object}
	assert.Contains(t, objects, "list-1:4")
	assert.Contains(t, objects, "list-2:2")
}

func TestFold_UnscopedOrderedByReplacesAll(t *testing.T) {
	// Ordering facts written before positions were list-scoped carry a bare
	// number; asserting one replaces every ordering fact for the subject.
	ctx := context.Background()
	store := memory.NewProjectionStore()

	first := events.NewTripleEvent(1, "item-1", "ORDERED_BY", "0", events.TripleOpAssert)
	require.NoError(t, projections.Fold(ctx, store, first))
	second := events.NewTripleEvent(2, "item-1", "ORDERED_BY", "4", events.TripleOpAssert)
	require.NoError(t, projections.Fold(ctx, store, second))

	facts, err := store.TriplesBySubject(ctx, "item-1")
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "4", facts[0].Object)
}

func TestFold_UnknownPredicateSkipped(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProjectionStore()

	event := events.NewTripleEvent(1, "item-1", "LINKED_WITH", "list-1", events.TripleOpAssert)
	require.NoError(t, projections.Fold(ctx, store, event))

	facts, err := store.TriplesBySubject(ctx, "item-1")
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestTripleMutationFor_UnknownOp(t *testing.T) {
	event := events.NewTripleEvent(1, "item-1", "CONTAINS", "list-1", "MERGE")
	assert.Nil(t, projections.TripleMutationFor(event))
}
