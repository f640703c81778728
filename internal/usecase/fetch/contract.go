package fetch

import (
	"context"

	"github.com/kailas-cloud/abmeta/internal/domain"
	domitem "github.com/kailas-cloud/abmeta/internal/domain/item"
	"github.com/kailas-cloud/abmeta/internal/usecase/mapping"
)

// ItemStore loads and persists items.
type ItemStore interface {
	Get(ctx context.Context, id string) (domitem.Item, error)
	List(ctx context.Context) ([]domitem.Item, error)
	Store(ctx context.Context, it *domitem.Item) error
}

// Fetcher retrieves the acoustic document of a recording.
type Fetcher interface {
	Fetch(ctx context.Context, mbid string) (domain.Document, error)
}

// Mapper extracts attributes from a document.
type Mapper interface {
	Map(doc domain.Document, sink mapping.Sink) []domain.Attribute
}

// Writer stores item attributes outside the database.
type Writer interface {
	Enabled() bool
	Write(it *domitem.Item) error
}
