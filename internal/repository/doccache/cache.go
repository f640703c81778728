package doccache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/abmeta/internal/db"
	"github.com/kailas-cloud/abmeta/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "doc_cache:"

// store is the consumer interface for the document cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedFetcher caches fetched documents in a key-value store.
type CachedFetcher struct {
	inner      domain.DocumentFetcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. A zero ttl disables caching.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.DocumentFetcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedFetcher {
	return &CachedFetcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Fetch returns a cached document or calls the inner fetcher.
// Empty documents are never cached, so unknown recordings are retried.
func (c *CachedFetcher) Fetch(ctx context.Context, mbid string) (domain.Document, error) {
	if c.ttl <= 0 {
		return c.fetchInner(ctx, mbid)
	}

	key := cacheKey(mbid)
	if doc, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return doc, nil
	}

	c.incCache("miss")

	doc, err := c.fetchInner(ctx, mbid)
	if err != nil {
		return nil, err
	}
	if len(doc) > 0 {
		c.putToCache(ctx, key, doc)
	}
	return doc, nil
}

func (c *CachedFetcher) fetchInner(ctx context.Context, mbid string) (domain.Document, error) {
	doc, err := c.inner.Fetch(ctx, mbid)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return doc, nil
}

func (c *CachedFetcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(mbid string) string {
	return cacheKeyPrefix + mbid
}

func (c *CachedFetcher) getFromCache(ctx context.Context, key string) (domain.Document, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached document", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	doc, err := domain.DecodeDocument(bytes.NewReader(data))
	if err != nil {
		c.logger.Warn("Failed to parse cached document", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return doc, true
}

func (c *CachedFetcher) putToCache(ctx context.Context, key string, doc domain.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		c.logger.Warn("Failed to encode document", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache document", zap.String("key", key), zap.Error(err))
	}
}
