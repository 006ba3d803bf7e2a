package valueobjects_test

import (
	"strings"
	"testing"

	"clipshelf/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListID(t *testing.T) {
	id := valueobjects.NewListID()

	assert.True(t, strings.HasPrefix(id.String(), "list-"))
	assert.False(t, id.IsEmpty())

	other := valueobjects.NewListID()
	assert.False(t, id.Equals(other))
}

func TestParseListID_Empty(t *testing.T) {
	_, err := valueobjects.ParseListID("   ")
	assert.ErrorIs(t, err, valueobjects.ErrEmptyListID)
}

func TestDeriveItemID_Deterministic(t *testing.T) {
	first, err := valueobjects.DeriveItemID("https://example.com/article")
	require.NoError(t, err)
	second, err := valueobjects.DeriveItemID("https://example.com/article")
	require.NoError(t, err)

	assert.True(t, first.Equals(second))
	assert.True(t, strings.HasPrefix(first.String(), "item-"))
	// 128-bit hash, hex encoded
	assert.Len(t, first.String(), len("item-")+32)
}

func TestDeriveItemID_DifferentSources(t *testing.T) {
	first, err := valueobjects.DeriveItemID("https://example.com/a")
	require.NoError(t, err)
	second, err := valueobjects.DeriveItemID("https://example.com/b")
	require.NoError(t, err)

	assert.False(t, first.Equals(second))
}

func TestDeriveItemID_EmptySource(t *testing.T) {
	_, err := valueobjects.DeriveItemID("")
	assert.ErrorIs(t, err, valueobjects.ErrEmptyItemSource)
}

func TestItemReference_Validation(t *testing.T) {
	itemID, err := valueobjects.DeriveItemID("https://example.com/a")
	require.NoError(t, err)

	t.Run("valid reference", func(t *testing.T) {
		ref, err := valueobjects.NewItemReference(itemID, "https://example.com/a", 0)
		require.NoError(t, err)
		assert.Equal(t, 0, ref.Order())
	})

	t.Run("negative order rejected", func(t *testing.T) {
		_, err := valueobjects.NewItemReference(itemID, "https://example.com/a", -1)
		assert.ErrorIs(t, err, valueobjects.ErrNegativeItemOrder)
	})

	t.Run("empty url rejected", func(t *testing.T) {
		_, err := valueobjects.NewItemReference(itemID, "  ", 0)
		assert.ErrorIs(t, err, valueobjects.ErrEmptyItemURL)
	})

	t.Run("with order returns copy", func(t *testing.T) {
		ref, err := valueobjects.NewItemReference(itemID, "https://example.com/a", 1)
		require.NoError(t, err)
		moved, err := ref.WithOrder(5)
		require.NoError(t, err)
		assert.Equal(t, 1, ref.Order())
		assert.Equal(t, 5, moved.Order())
	})
}

func TestParsePredicate(t *testing.T) {
	for _, valid := range []string{"CONTAINS", "ORDERED_BY", "BELONGS_TO", "TAGGED_WITH", "RELATED_TO"} {
		p, err := valueobjects.ParsePredicate(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, p.String())
	}

	_, err := valueobjects.ParsePredicate("LINKED_WITH")
	assert.ErrorIs(t, err, valueobjects.ErrInvalidPredicate)
}

func TestPredicate_IsMembership(t *testing.T) {
	assert.True(t, valueobjects.PredicateContains.IsMembership())
	assert.True(t, valueobjects.PredicateBelongsTo.IsMembership())
	assert.False(t, valueobjects.PredicateOrderedBy.IsMembership())
	assert.False(t, valueobjects.PredicateTaggedWith.IsMembership())
}

func TestOrderedByObject_RoundTrip(t *testing.T) {
	object := valueobjects.OrderedByObject("list-1724140000000-abcdef123456", 7)

	listID, position, ok := valueobjects.ParseOrderedByObject(object)
	require.True(t, ok)
	assert.Equal(t, "list-1724140000000-abcdef123456", listID)
	assert.Equal(t, 7, position)
}

func TestParseOrderedByObject_RejectsOtherShapes(t *testing.T) {
	for _, object := range []string{"4", "list-1:x", ":3", "list-1:-2", ""} {
		_, _, ok := valueobjects.ParseOrderedByObject(object)
		assert.False(t, ok, "object %q", object)
	}
}

func TestTriple_Key(t *testing.T) {
	triple := valueobjects.NewTriple("item-1", valueobjects.PredicateContains, "list-1")
	assert.Equal(t, "item-1|CONTAINS|list-1", triple.Key())
}
