package item

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/abmeta/internal/domain"
	domitem "github.com/kailas-cloud/abmeta/internal/domain/item"
)

// store is the consumer interface for items (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/item.Repository and usecase/fetch.ItemStore.
type Repo struct {
	store store
}

// New creates an item repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert registers an item or updates its recording ID and path.
// Stored attributes are kept. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, it *domitem.Item) (bool, error) {
	key := itemKey(it.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	if err := r.store.HSet(ctx, key, metaToHash(it)); err != nil {
		return false, fmt.Errorf("hset item %s: %w", it.ID(), err)
	}
	return !exists, nil
}

// Get retrieves an item by ID.
func (r *Repo) Get(ctx context.Context, id string) (domitem.Item, error) {
	m, err := r.store.HGetAll(ctx, itemKey(id))
	if err != nil {
		return domitem.Item{}, fmt.Errorf("hgetall item %s: %w", id, err)
	}
	if len(m) == 0 {
		return domitem.Item{}, domain.ErrItemNotFound
	}
	it, err := itemFromHash(m)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("parse item %s: %w", id, err)
	}
	return it, nil
}

// List returns all items sorted by ID.
func (r *Repo) List(ctx context.Context) ([]domitem.Item, error) {
	keys, err := r.store.Scan(ctx, itemKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	if len(keys) == 0 {
		return []domitem.Item{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi items: %w", err)
	}

	items := make([]domitem.Item, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		it, err := itemFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse item %s: %w", keys[i], err)
		}
		items = append(items, it)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID() < items[j].ID()
	})
	return items, nil
}

// Delete removes an item.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := itemKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrItemNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del item %s: %w", id, err)
	}
	return nil
}

// Store persists the attributes of an item together with its registration fields.
func (r *Repo) Store(ctx context.Context, it *domitem.Item) error {
	if err := r.store.HSet(ctx, itemKey(it.ID()), storeFields(it)); err != nil {
		return fmt.Errorf("store item %s: %w", it.ID(), err)
	}
	return nil
}

func storeFields(it *domitem.Item) map[string]string {
	fields := attributesToHash(it)
	for k, v := range metaToHash(it) {
		fields[k] = v
	}
	return fields
}

// Key pattern: abmeta:item:{id}

func itemKey(id string) string {
	return fmt.Sprintf("%sitem:%s", domain.KeyPrefix, id)
}
