package batch

import (
	"regexp"
	"sync"

	"github.com/lineagelabs/sqlens/pkg/parser"
)

// DefaultCacheSize is how many parsed statements the cache retains.
const DefaultCacheSize = 100

var cacheKeySpace = regexp.MustCompile(`\s+`)

// Cache memoizes parse results keyed on whitespace-normalized SQL text,
// so re-extracting the same query across files skips the parser. Cached
// statements are cloned on the way out because the expansion pass
// mutates ASTs in place. Eviction is oldest-first.
type Cache struct {
	mu      sync.Mutex
	cap     int
	entries map[string]parser.Statement
	order   []string
}

// NewCache returns a cache holding at most capacity statements. A
// capacity of zero or less falls back to DefaultCacheSize.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		cap:     capacity,
		entries: make(map[string]parser.Statement, capacity),
	}
}

// Parse returns a parsed statement for the SQL, from cache when
// possible. Parse failures are not cached.
func (c *Cache) Parse(sql string) (parser.Statement, error) {
	key := cacheKeySpace.ReplaceAllString(sql, " ")

	c.mu.Lock()
	if stmt, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return parser.CloneStatement(stmt), nil
	}
	c.mu.Unlock()

	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) >= c.cap {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
		c.entries[key] = stmt
		c.order = append(c.order, key)
	}
	c.mu.Unlock()

	return parser.CloneStatement(stmt), nil
}

// Len reports how many statements are currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
