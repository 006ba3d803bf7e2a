package sqlite_test

import (
	"context"
	"testing"
	"time"

	"clipshelf/application/projections"
	"clipshelf/domain/core/valueobjects"
	"clipshelf/domain/events"
	"clipshelf/infrastructure/persistence/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) (*sqlite.EventLog, *sqlite.ProjectionStore) {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.EnsureSchema(context.Background(), db, zap.NewNop()))
	return sqlite.NewEventLog(db), sqlite.NewProjectionStore(db)
}

func TestEventLog_AppendAndQuery(t *testing.T) {
	ctx := context.Background()
	log, _ := openTestDB(t)

	now := time.Now()
	created := events.NewListCreated("list-1", 1, events.ListSnapshot{
		Name: "Reading", Icon: "book", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, log.Append(ctx, events.FamilyList, created))

	itemCreated := events.NewItemCreated("item-1", 1, events.ItemSnapshot{
		Name: "Article", URL: "https://example.com/a", ItemType: "Article",
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, log.Append(ctx, events.FamilyItem, itemCreated))

	count, err := log.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	history, err := log.EventsByAggregateID(ctx, "list-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	decoded, ok := history[0].(*events.ListCreated)
	require.True(t, ok)
	assert.Equal(t, "Reading", decoded.Name)
	assert.Equal(t, created.GetEventID(), decoded.GetEventID())

	byType, err := log.EventsByType(ctx, events.TypeItemCreated)
	require.NoError(t, err)
	assert.Len(t, byType, 1)

	all, err := log.AllEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, log.Clear(ctx))
	count, err = log.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestProjectionStore_ListRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, store := openTestDB(t)

	missing, err := store.GetList(ctx, "list-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	now := time.Now().UTC().Truncate(time.Millisecond)
	record := &projections.ListProjection{
		ID: "list-1", Name: "Reading", Icon: "book", Color: "#f0f",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.PutList(ctx, record))

	fetched, err := store.GetList(ctx, "list-1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "Reading", fetched.Name)
	assert.True(t, now.Equal(fetched.CreatedAt))

	// Upsert overwrites
	record.Name = "Watching"
	require.NoError(t, store.PutList(ctx, record))
	fetched, err = store.GetList(ctx, "list-1")
	require.NoError(t, err)
	assert.Equal(t, "Watching", fetched.Name)

	require.NoError(t, store.DeleteList(ctx, "list-1"))
	fetched, err = store.GetList(ctx, "list-1")
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestProjectionStore_ItemByURLAndJSONLD(t *testing.T) {
	ctx := context.Background()
	_, store := openTestDB(t)

	now := time.Now().UTC()
	record := &projections.ItemProjection{
		ID:        "item-1",
		Name:      "Article",
		URL:       "https://example.com/a",
		ItemType:  "Article",
		JSONLD:    map[string]interface{}{"@type": "Article", "position": 2.0},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.PutItem(ctx, record))

	byURL, err := store.GetItemByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	require.NotNil(t, byURL)
	assert.Equal(t, "item-1", byURL.ID)
	assert.Equal(t, "Article", byURL.JSONLD["@type"])

	byURL, err = store.GetItemByURL(ctx, "https://example.com/other")
	require.NoError(t, err)
	assert.Nil(t, byURL)
}

func TestProjectionStore_Triples(t *testing.T) {
	ctx := context.Background()
	_, store := openTestDB(t)

	contains := valueobjects.NewTriple("item-1", valueobjects.PredicateContains, "list-1")
	ordered := valueobjects.NewTriple("item-1", valueobjects.PredicateOrderedBy, "0")
	require.NoError(t, store.PutTriple(ctx, contains))
	require.NoError(t, store.PutTriple(ctx, ordered))
	// Same natural key inserts once
	require.NoError(t, store.PutTriple(ctx, contains))

	bySubject, err := store.TriplesBySubject(ctx, "item-1")
	require.NoError(t, err)
	assert.Len(t, bySubject, 2)

	byObject, err := store.TriplesByObject(ctx, "list-1")
	require.NoError(t, err)
	require.Len(t, byObject, 1)
	assert.Equal(t, valueobjects.PredicateContains, byObject[0].Predicate)

	require.NoError(t, store.DeleteTriplesBySubjectPredicate(ctx, "item-1", valueobjects.PredicateOrderedBy))
	bySubject, err = store.TriplesBySubject(ctx, "item-1")
	require.NoError(t, err)
	assert.Len(t, bySubject, 1)

	require.NoError(t, store.DeleteTriple(ctx, "item-1", valueobjects.PredicateContains, "list-1"))
	bySubject, err = store.TriplesBySubject(ctx, "item-1")
	require.NoError(t, err)
	assert.Empty(t, bySubject)
}

func TestEnsureSchema_WipesLegacyDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	// A pre-triples database shape
	_, err = db.ExecContext(ctx, `CREATE TABLE list_events (id INTEGER PRIMARY KEY, blob TEXT)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO list_events (blob) VALUES ('legacy')`)
	require.NoError(t, err)

	require.NoError(t, sqlite.EnsureSchema(ctx, db, zap.NewNop()))

	// Legacy rows are gone and the new shape is queryable
	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(1) FROM list_events`).Scan(&count))
	assert.Equal(t, 0, count)
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(1) FROM triples`).Scan(&count))
	assert.Equal(t, 0, count)
}
