package doccache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/abmeta/internal/db"
	"github.com/kailas-cloud/abmeta/internal/domain"
)

const testMBID = "b1a9c0e9-d987-4042-ae91-78d6a3267d69"

type mockFetcher struct {
	doc   domain.Document
	err   error
	calls int
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) (domain.Document, error) {
	m.calls++
	return m.doc, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedFetcher(
	t *testing.T, inner *mockFetcher, ttl time.Duration,
) (*CachedFetcher, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	ms := &mockKVStore{}
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "test_document_cache_total"},
		[]string{"result"},
	)
	return New(inner, ms, ttl, counter, zap.NewNop()), ms, counter
}
