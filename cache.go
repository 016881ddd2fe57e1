package locationsharinglib

import (
	"context"
	"sync"
	"time"
)

// cacheTTL is how long one fetched root value is served before refetching.
const cacheTTL = 30 * time.Second

// rootCache is a single-slot cache over the fetcher. Concurrent misses may
// each trigger their own fetch; the last writer wins. Fetched content is
// fungible, so no de-duplication is attempted.
type rootCache struct {
	fetch    func(context.Context) ([]any, error)
	disabled bool
	now      func() time.Time

	mu        sync.Mutex
	root      []any
	fetchedAt time.Time
}

// getOrFetch serves the cached root within the TTL window, fetching
// otherwise. A failed fetch leaves the existing slot untouched.
func (c *rootCache) getOrFetch(ctx context.Context) ([]any, error) {
	if !c.disabled {
		c.mu.Lock()
		if c.root != nil && c.now().Sub(c.fetchedAt) < cacheTTL {
			root := c.root
			c.mu.Unlock()
			return root, nil
		}
		c.mu.Unlock()
	}

	root, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.root = root
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return root, nil
}
