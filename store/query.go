package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Result is a columnar query result.
type Result struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated bool     `json:"truncated,omitempty"`
}

// Empty reports whether the result has no rows.
func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Query runs a read query on a scoped connection, bounded by the configured
// row cap and wall-clock timeout. Identical query+args pairs are memoized.
// Results past the row cap are dropped and the result marked truncated.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	key := cacheKey(query, args)
	if res, ok := s.cache.get(key); ok {
		return res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	res := &Result{Columns: cols}
	for rows.Next() {
		if len(res.Rows) >= s.opts.MaxRows {
			res.Truncated = true
			slog.Warn("query result truncated", "max_rows", s.opts.MaxRows)
			break
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil && !res.Truncated {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	s.cache.put(key, res)
	return res, nil
}

func cacheKey(query string, args []any) string {
	if len(args) == 0 {
		return query
	}
	return query + "|" + fmt.Sprintf("%v", args)
}

type cacheEntry struct {
	result   *Result
	storedAt time.Time
}

// queryCache memoizes results keyed by query text. Bounded by entry count
// with FIFO eviction, and by a per-entry TTL. The mutex matters: the dashboard
// issues queries from concurrent request handlers.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string
	size    int
	ttl     time.Duration
}

func newQueryCache(size int, ttl time.Duration) *queryCache {
	return &queryCache{
		entries: make(map[string]cacheEntry, size),
		size:    size,
		ttl:     ttl,
	}
}

func (c *queryCache) get(key string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

func (c *queryCache) put(key string, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.size && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{result: res, storedAt: time.Now()}
}

func (c *queryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry, c.size)
	c.order = nil
}
