package persistence_test

import (
	"context"
	"testing"
	"time"

	"clipshelf/application/projections"
	"clipshelf/domain/core/aggregates"
	"clipshelf/domain/events"
	"clipshelf/infrastructure/persistence"
	"clipshelf/infrastructure/persistence/memory"
	"clipshelf/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*persistence.EventStore, *memory.ProjectionStore) {
	t.Helper()
	projectionStore := memory.NewProjectionStore()
	store := persistence.NewEventStore(
		memory.NewEventLog(),
		projectionStore,
		zap.NewNop(),
		observability.NewCollector("clipshelf"),
	)
	return store, projectionStore
}

func TestEventStore_AppendUpdatesProjectionSynchronously(t *testing.T) {
	ctx := context.Background()
	store, projectionStore := newTestStore(t)

	now := time.Now()
	event := events.NewListCreated("list-1", 1, events.ListSnapshot{
		Name: "Reading", Icon: "book", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, store.AppendEvent(ctx, event))

	// The projection reflects the event before AppendEvent returns
	record, err := projectionStore.GetList(ctx, "list-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Reading", record.Name)

	count, err := store.GetEventCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEventStore_AggregateCommitRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, projectionStore := newTestStore(t)

	list, err := aggregates.NewList("Reading", "book", "", "")
	require.NoError(t, err)
	require.NoError(t, list.Rename("Watching"))

	require.NoError(t, store.AppendEvents(ctx, list.GetAllUncommittedEvents()))
	list.MarkAllEventsAsCommitted()

	// Rehydrate from the store and compare
	history, err := store.GetEventsByAggregateID(ctx, list.ID())
	require.NoError(t, err)
	require.Len(t, history, 2)
	for i := 1; i < len(history); i++ {
		assert.Less(t, history[i-1].GetSequenceNo(), history[i].GetSequenceNo())
	}

	record, err := projectionStore.GetList(ctx, list.ID())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Watching", record.Name)
}

func TestEventStore_RoutesByTypePrefix(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	listEvent := events.NewListCreated("list-1", 1, events.ListSnapshot{Name: "L", Icon: "i"})
	itemEvent := events.NewItemCreated("item-1", 1, events.ItemSnapshot{
		Name: "N", URL: "https://example.com", ItemType: "Article",
	})
	require.NoError(t, store.AppendEvent(ctx, listEvent))
	require.NoError(t, store.AppendEvent(ctx, itemEvent))

	byType, err := store.GetEventsByType(ctx, events.TypeItemCreated)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "item-1", byType[0].GetAggregateID())

	all, err := store.GetAllEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEventStore_UnknownTypeIsRetainedWithoutProjectionEffect(t *testing.T) {
	ctx := context.Background()
	store, projectionStore := newTestStore(t)

	unknown, err := events.Decode("ListArchived",
		[]byte(`{"event_id":"e-1","aggregate_id":"list-1","event_type":"ListArchived","sequence_no":1,"timestamp":"2026-01-01T00:00:00Z"}`))
	require.NoError(t, err)

	require.NoError(t, store.AppendEvent(ctx, unknown))

	count, err := store.GetEventCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	record, err := projectionStore.GetList(ctx, "list-1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestEventStore_GetLatestEventForAggregate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	latest, err := store.GetLatestEventForAggregate(ctx, "list-none")
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, store.AppendEvent(ctx, events.NewListCreated("list-1", 1, events.ListSnapshot{Name: "L", Icon: "i"})))
	require.NoError(t, store.AppendEvent(ctx, events.NewListUpdated("list-1", 2, events.ListSnapshot{Name: "M", Icon: "i"})))

	latest, err = store.GetLatestEventForAggregate(ctx, "list-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.GetSequenceNo())
}

func TestEventStore_ClearAndIsEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	empty, err := store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, store.AppendEvent(ctx, events.NewListCreated("list-1", 1, events.ListSnapshot{Name: "L", Icon: "i"})))
	require.NoError(t, store.ClearEvents(ctx))

	empty, err = store.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestRebuilder_RecreatesProjectionsFromLog(t *testing.T) {
	ctx := context.Background()
	store, projectionStore := newTestStore(t)

	list, err := aggregates.NewList("Reading", "book", "blue", "")
	require.NoError(t, err)
	require.NoError(t, store.AppendEvents(ctx, list.GetAllUncommittedEvents()))
	list.MarkAllEventsAsCommitted()

	item, err := aggregates.NewItem("Article", "https://example.com/a", "Article", nil, "", "")
	require.NoError(t, err)
	require.NoError(t, store.AppendEvents(ctx, item.GetAllUncommittedEvents()))
	item.MarkAllEventsAsCommitted()

	// Simulate projection loss
	require.NoError(t, projectionStore.ClearProjections(ctx))
	gone, err := projectionStore.GetList(ctx, list.ID())
	require.NoError(t, err)
	require.Nil(t, gone)

	rebuilder := projections.NewRebuilder(store, projectionStore, zap.NewNop())
	report, err := rebuilder.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.EventsReplayed)
	assert.Equal(t, 0, report.EventsSkipped)

	restored, err := projectionStore.GetList(ctx, list.ID())
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "Reading", restored.Name)

	restoredItem, err := projectionStore.GetItem(ctx, item.ID())
	require.NoError(t, err)
	require.NotNil(t, restoredItem)
}
