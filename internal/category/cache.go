package category

import (
	"sort"
	"strings"
	"sync"

	"github.com/halljared/triviadesk/internal/domain"
)

// Cache holds the last-fetched category list. It is only ever mutated by
// wholesale replacement from a fetch; all views return copies.
type Cache struct {
	mu   sync.RWMutex
	list []domain.Category
}

func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps the entire category list.
func (c *Cache) Replace(list []domain.Category) {
	copied := make([]domain.Category, len(list))
	copy(copied, list)

	c.mu.Lock()
	c.list = copied
	c.mu.Unlock()
}

// All returns the categories in fetch order.
func (c *Cache) All() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Category, len(c.list))
	copy(out, c.list)
	return out
}

// SortedByCount returns the categories sorted by question count,
// descending. Ties keep fetch order.
func (c *Cache) SortedByCount() []domain.Category {
	out := c.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QuestionCount > out[j].QuestionCount
	})
	return out
}

// Search returns categories whose name contains the query,
// case-insensitively. An empty query matches everything.
func (c *Cache) Search(query string) []domain.Category {
	q := strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Category, 0, len(c.list))
	for _, cat := range c.list {
		if q == "" || strings.Contains(strings.ToLower(cat.Name), q) {
			out = append(out, cat)
		}
	}
	return out
}

// ByID looks a category up by id.
func (c *Cache) ByID(id int) (domain.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cat := range c.list {
		if cat.ID == id {
			return cat, true
		}
	}
	return domain.Category{}, false
}
