package item

import (
	"context"

	domitem "github.com/kailas-cloud/abmeta/internal/domain/item"
)

// Repository persists items.
type Repository interface {
	Upsert(ctx context.Context, it *domitem.Item) (created bool, err error)
	Get(ctx context.Context, id string) (domitem.Item, error)
	List(ctx context.Context) ([]domitem.Item, error)
	Delete(ctx context.Context, id string) error
}
