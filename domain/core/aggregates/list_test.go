package aggregates_test

import (
	"fmt"
	"testing"

	"clipshelf/domain/core/aggregates"
	"clipshelf/domain/core/valueobjects"
	"clipshelf/domain/events"
	"clipshelf/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestList(t *testing.T) *aggregates.List {
	t.Helper()
	list, err := aggregates.NewList("Reading", "book", "#ff6b6b", "articles to read")
	require.NoError(t, err)
	return list
}

func newTestRef(t *testing.T, url string, order int) valueobjects.ItemReference {
	t.Helper()
	itemID, err := valueobjects.DeriveItemID(url)
	require.NoError(t, err)
	ref, err := valueobjects.NewItemReference(itemID, url, order)
	require.NoError(t, err)
	return ref
}

func TestNewList(t *testing.T) {
	list := newTestList(t)

	assert.Equal(t, "Reading", list.Name())
	assert.Equal(t, "book", list.Icon())
	assert.False(t, list.IsDeleted())
	assert.Equal(t, 1, list.SequenceNo())

	pending := list.GetAllUncommittedEvents()
	require.Len(t, pending, 1)
	created, ok := pending[0].(*events.ListCreated)
	require.True(t, ok)
	assert.Equal(t, list.ID(), created.GetAggregateID())
	assert.Equal(t, 1, created.GetSequenceNo())
	assert.Equal(t, "Reading", created.Name)
}

func TestNewList_InvalidMetadata(t *testing.T) {
	_, err := aggregates.NewList("", "book", "", "")
	assert.ErrorIs(t, err, valueobjects.ErrEmptyListName)

	_, err = aggregates.NewList("Reading", "book", "not-a-color", "")
	assert.ErrorIs(t, err, valueobjects.ErrInvalidColor)
}

func TestList_ReplayDeterminism(t *testing.T) {
	// Arrange: a list with a few mutations
	list := newTestList(t)
	require.NoError(t, list.Rename("Watching"))
	require.NoError(t, list.ChangeColor("blue"))
	require.NoError(t, list.ChangeDescription("films instead"))

	history := list.GetAllUncommittedEvents()

	// Act: replay the same history into a fresh instance
	listID, err := valueobjects.ParseListID(list.ID())
	require.NoError(t, err)
	replayed := aggregates.ListFromEvents(listID, history)

	// Assert: identical state, same sequence position, nothing pending
	assert.Equal(t, list.Name(), replayed.Name())
	assert.Equal(t, list.Icon(), replayed.Icon())
	assert.Equal(t, list.Color(), replayed.Color())
	assert.Equal(t, list.Description(), replayed.Description())
	assert.Equal(t, list.SequenceNo(), replayed.SequenceNo())
	assert.Empty(t, replayed.GetAllUncommittedEvents())
}

func TestList_NoOpMutationsEmitNoEvents(t *testing.T) {
	list := newTestList(t)
	baseline := len(list.GetAllUncommittedEvents())

	require.NoError(t, list.Rename("Reading"))
	require.NoError(t, list.ChangeIcon("book"))
	require.NoError(t, list.ChangeColor("#ff6b6b"))
	require.NoError(t, list.ChangeDescription("articles to read"))

	assert.Len(t, list.GetAllUncommittedEvents(), baseline)
}

func TestList_UpdatedEventCarriesFullSnapshot(t *testing.T) {
	list := newTestList(t)
	require.NoError(t, list.Rename("Watching"))

	pending := list.GetAllUncommittedEvents()
	updated, ok := pending[len(pending)-1].(*events.ListUpdated)
	require.True(t, ok)

	// Unchanged fields travel too
	assert.Equal(t, "Watching", updated.Name)
	assert.Equal(t, "book", updated.Icon)
	assert.Equal(t, "#ff6b6b", updated.Color)
	assert.Equal(t, "articles to read", updated.Description)
}

func TestList_DeleteIsIdempotent(t *testing.T) {
	list := newTestList(t)

	require.NoError(t, list.Delete())
	require.NoError(t, list.Delete())

	var deletions int
	for _, event := range list.GetAllUncommittedEvents() {
		if _, ok := event.(*events.ListDeleted); ok {
			deletions++
		}
	}
	assert.Equal(t, 1, deletions)
	assert.True(t, list.IsDeleted())
}

func TestList_MutationAfterDeleteRejected(t *testing.T) {
	list := newTestList(t)
	require.NoError(t, list.Delete())

	err := list.Rename("Watching")
	assert.ErrorIs(t, err, aggregates.ErrListDeleted)
	assert.True(t, errors.IsConflict(err))

	err = list.AddItem(newTestRef(t, "https://example.com/a", 0))
	assert.ErrorIs(t, err, aggregates.ErrListDeleted)
}

func TestList_AddItem(t *testing.T) {
	list := newTestList(t)
	ref := newTestRef(t, "https://example.com/a", 3)

	require.NoError(t, list.AddItem(ref))
	assert.True(t, list.ContainsItem(ref.ItemID()))

	pending := list.GetAllUncommittedEvents()
	require.Len(t, pending, 3) // ListCreated + two triple facts

	contains, ok := pending[1].(*events.TripleEvent)
	require.True(t, ok)
	assert.Equal(t, ref.ItemID().String(), contains.Subject)
	assert.Equal(t, "CONTAINS", contains.Predicate)
	assert.Equal(t, list.ID(), contains.Object)
	assert.Equal(t, events.TripleOpAssert, contains.Op)

	ordered, ok := pending[2].(*events.TripleEvent)
	require.True(t, ok)
	assert.Equal(t, "ORDERED_BY", ordered.Predicate)
	// Positions are scoped to the list they belong to
	assert.Equal(t, valueobjects.OrderedByObject(list.ID(), 3), ordered.Object)
}

func TestList_AddItemTwiceRejected(t *testing.T) {
	list := newTestList(t)
	ref := newTestRef(t, "https://example.com/a", 0)
	require.NoError(t, list.AddItem(ref))

	err := list.AddItem(ref)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Contains(t, err.Error(),
		fmt.Sprintf("Item %s is already in the list", ref.ItemID().String()))
}

func TestList_RemoveItem(t *testing.T) {
	list := newTestList(t)
	ref := newTestRef(t, "https://example.com/a", 2)
	require.NoError(t, list.AddItem(ref))

	require.NoError(t, list.RemoveItem(ref.ItemID()))
	assert.False(t, list.ContainsItem(ref.ItemID()))

	pending := list.GetAllUncommittedEvents()
	require.Len(t, pending, 5)

	retract, ok := pending[3].(*events.TripleEvent)
	require.True(t, ok)
	assert.Equal(t, events.TripleOpRetract, retract.Op)
	assert.Equal(t, "CONTAINS", retract.Predicate)
}

func TestList_RemoveAbsentItemRejected(t *testing.T) {
	list := newTestList(t)
	itemID, err := valueobjects.DeriveItemID("https://example.com/missing")
	require.NoError(t, err)

	err = list.RemoveItem(itemID)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Contains(t, err.Error(),
		fmt.Sprintf("Item %s is not in the list", itemID.String()))
}

func TestList_ReorderItem(t *testing.T) {
	list := newTestList(t)
	ref := newTestRef(t, "https://example.com/a", 0)
	require.NoError(t, list.AddItem(ref))

	require.NoError(t, list.ReorderItem(ref.ItemID(), 7))

	pending := list.GetAllUncommittedEvents()
	moved, ok := pending[len(pending)-1].(*events.TripleEvent)
	require.True(t, ok)
	assert.Equal(t, "ORDERED_BY", moved.Predicate)
	assert.Equal(t, valueobjects.OrderedByObject(list.ID(), 7), moved.Object)
	assert.Equal(t, events.TripleOpAssert, moved.Op)
}

func TestList_ReorderAbsentItemRejected(t *testing.T) {
	list := newTestList(t)
	itemID, err := valueobjects.DeriveItemID("https://example.com/missing")
	require.NoError(t, err)

	err = list.ReorderItem(itemID, 1)
	assert.True(t, errors.IsConflict(err))
}

func TestList_RestoreItemsSeedsMembershipWithoutEvents(t *testing.T) {
	list := newTestList(t)
	ref := newTestRef(t, "https://example.com/a", 0)
	baseline := len(list.GetAllUncommittedEvents())

	list.RestoreItems([]valueobjects.ItemReference{ref})

	assert.True(t, list.ContainsItem(ref.ItemID()))
	assert.Len(t, list.GetAllUncommittedEvents(), baseline)

	// Restored membership still guards against duplicate adds
	err := list.AddItem(ref)
	assert.True(t, errors.IsConflict(err))
}

func TestList_UncommittedEventsSortedBySequence(t *testing.T) {
	list := newTestList(t)
	require.NoError(t, list.Rename("Watching"))
	require.NoError(t, list.AddItem(newTestRef(t, "https://example.com/a", 0)))
	require.NoError(t, list.AddItem(newTestRef(t, "https://example.com/b", 1)))

	pending := list.GetAllUncommittedEvents()
	for i := 1; i < len(pending); i++ {
		assert.Less(t, pending[i-1].GetSequenceNo(), pending[i].GetSequenceNo())
	}
}

func TestList_MarkAllEventsAsCommitted(t *testing.T) {
	list := newTestList(t)
	require.NoError(t, list.Rename("Watching"))

	list.MarkAllEventsAsCommitted()
	assert.Empty(t, list.GetAllUncommittedEvents())

	// Further mutation starts a fresh buffer at the right sequence number
	require.NoError(t, list.ChangeColor("blue"))
	pending := list.GetAllUncommittedEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, 3, pending[0].GetSequenceNo())
}
