package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halljared/triviadesk/internal/category"
	"github.com/halljared/triviadesk/internal/domain"
)

func TestCache_SortedByCount(t *testing.T) {
	c := category.NewCache()
	c.Replace([]domain.Category{
		{ID: 1, Name: "X", QuestionCount: 5},
		{ID: 2, Name: "Y", QuestionCount: 20},
		{ID: 3, Name: "Z", QuestionCount: 20},
	})

	sorted := c.SortedByCount()
	require.Equal(t, []string{"Y", "Z", "X"}, names(sorted), "descending by count, ties keep fetch order")

	// The sorted view must not disturb fetch order.
	require.Equal(t, []string{"X", "Y", "Z"}, names(c.All()))
}

func TestCache_Search(t *testing.T) {
	c := category.NewCache()
	c.Replace([]domain.Category{
		{ID: 1, Name: "World History"},
		{ID: 2, Name: "Art History"},
		{ID: 3, Name: "Science"},
	})

	assert.Equal(t, []string{"World History", "Art History"}, names(c.Search("history")))
	assert.Equal(t, []string{"Science"}, names(c.Search("SCI")))
	assert.Empty(t, c.Search("sports"))
	assert.Len(t, c.Search(""), 3)
}

func TestCache_ByID(t *testing.T) {
	c := category.NewCache()
	c.Replace([]domain.Category{{ID: 7, Name: "Geography", QuestionCount: 12}})

	got, ok := c.ByID(7)
	require.True(t, ok)
	require.Equal(t, "Geography", got.Name)

	_, ok = c.ByID(99)
	require.False(t, ok)
}

func TestCache_ReplaceIsWholesale(t *testing.T) {
	c := category.NewCache()
	c.Replace([]domain.Category{{ID: 1, Name: "Old"}})
	c.Replace([]domain.Category{{ID: 2, Name: "New"}})

	require.Equal(t, []string{"New"}, names(c.All()))
}

func names(list []domain.Category) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}
