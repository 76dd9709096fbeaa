package collection

import (
	"context"
	"sync"

	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	"golang.org/x/sync/singleflight"
)

// CachedImporter runs the underlying import once and shares the result between
// sessions. Concurrent first callers are collapsed into one import. A failed
// import is not cached.
type CachedImporter struct {
	inner interfaces.CollectionImporter
	group singleflight.Group

	mu     sync.RWMutex
	cached *models.ImportedCards
}

var _ interfaces.CollectionImporter = (*CachedImporter)(nil)

func NewCachedImporter(inner interfaces.CollectionImporter) *CachedImporter {
	return &CachedImporter{inner: inner}
}

// Import returns the shared collection. Callers must treat it as read-only.
func (c *CachedImporter) Import(ctx context.Context) (*models.ImportedCards, error) {
	c.mu.RLock()
	cached := c.cached
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do("collection", func() (interface{}, error) {
		// Detached from the caller so one canceled session does not fail the others.
		imported, err := c.inner.Import(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cached = imported
		c.mu.Unlock()
		return imported, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ImportedCards), nil
}

// Invalidate drops the cached collection; the next Import reloads it.
func (c *CachedImporter) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
