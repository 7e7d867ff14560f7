package neows

import (
	"container/list"
	"context"
	"strconv"
	"sync"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
)

// CachedCatalog wraps a Catalog with a bounded in-memory cache that evicts
// the least recently used key. Browse pages and lookups share one cache with
// distinct key prefixes.
type CachedCatalog struct {
	inner   domain.Catalog
	cache   *objectCache
	metrics *observability.Metrics
}

// NewCachedCatalog creates a cache decorator around a catalog.
func NewCachedCatalog(inner domain.Catalog, maxEntries int, metrics *observability.Metrics) *CachedCatalog {
	return &CachedCatalog{
		inner:   inner,
		cache:   newObjectCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedCatalog) Browse(ctx context.Context, page int) ([]domain.NearEarthObject, error) {
	key := "browse:" + strconv.Itoa(page)
	if objects, ok := c.cache.lookup(key); ok {
		c.metrics.CatalogCache.WithLabelValues("browse", "hit").Inc()
		return objects, nil
	}
	c.metrics.CatalogCache.WithLabelValues("browse", "miss").Inc()

	objects, err := c.inner.Browse(ctx, page)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so transient empty pages can be retried.
	if len(objects) > 0 {
		c.cache.store(key, objects)
		for _, o := range objects {
			c.cache.store("neo:"+o.ID, []domain.NearEarthObject{o})
		}
	}
	return objects, nil
}

func (c *CachedCatalog) Lookup(ctx context.Context, id string) (domain.NearEarthObject, error) {
	key := "neo:" + id
	if objects, ok := c.cache.lookup(key); ok && len(objects) == 1 {
		c.metrics.CatalogCache.WithLabelValues("lookup", "hit").Inc()
		return objects[0], nil
	}
	c.metrics.CatalogCache.WithLabelValues("lookup", "miss").Inc()

	obj, err := c.inner.Lookup(ctx, id)
	if err != nil {
		return obj, err
	}
	if obj.ID != "" {
		c.cache.store(key, []domain.NearEarthObject{obj})
	}
	return obj, nil
}

// objectCache keeps the most recently touched catalog results up to a fixed
// number of keys. The list front is the newest entry.
type objectCache struct {
	mu    sync.Mutex
	limit int
	order *list.List
	byKey map[string]*list.Element
}

type cached struct {
	key     string
	objects []domain.NearEarthObject
}

func newObjectCache(limit int) *objectCache {
	return &objectCache{
		limit: max(limit, 1),
		order: list.New(),
		byKey: make(map[string]*list.Element),
	}
}

func (c *objectCache) lookup(key string) ([]domain.NearEarthObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cached).objects, true
}

func (c *objectCache) store(key string, objects []domain.NearEarthObject) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byKey[key]; ok {
		el.Value.(*cached).objects = objects
		c.order.MoveToFront(el)
		return
	}
	c.byKey[key] = c.order.PushFront(&cached{key: key, objects: objects})

	for c.order.Len() > c.limit {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byKey, oldest.Value.(*cached).key)
	}
}

func (c *objectCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
