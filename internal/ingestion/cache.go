package ingestion

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache. Geocoding is
// the only upstream result kept between fetches.
type CachedGeocoder struct {
	inner   Geocoder
	metrics *observability.Metrics

	mu         sync.Mutex
	maxEntries int
	order      *list.List // front = most recently used
	entries    map[string]*list.Element
}

type cacheEntry struct {
	key   string
	place models.Place
}

// NewCachedGeocoder creates a cache decorator. metrics may be nil.
func NewCachedGeocoder(inner Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &CachedGeocoder{
		inner:      inner,
		metrics:    metrics,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, query string) (models.Place, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if place, ok := c.get(key); ok {
		c.record("hit")
		return place, nil
	}
	c.record("miss")

	place, err := c.inner.Geocode(ctx, query)
	if err != nil {
		return place, err
	}
	// Zero results stay uncached so a transient miss can be retried.
	if !place.Coordinate.IsZero() {
		c.put(key, place)
	}
	return place, nil
}

func (c *CachedGeocoder) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *CachedGeocoder) get(key string) (models.Place, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return models.Place{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).place, true
}

func (c *CachedGeocoder) put(key string, place models.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).place = place
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, place: place})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *CachedGeocoder) record(result string) {
	if c.metrics != nil {
		c.metrics.GeocodeCache.WithLabelValues(result).Inc()
	}
}
