package item

import (
	"context"
	"fmt"

	domitem "github.com/kailas-cloud/abmeta/internal/domain/item"
)

// Service handles item registration and lookup.
type Service struct {
	repo Repository
}

// New creates an item service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register validates and stores an item, keeping attributes fetched earlier.
// Returns the stored item and whether it was created.
func (s *Service) Register(ctx context.Context, id, mbTrackID, path string) (domitem.Item, bool, error) {
	it, err := domitem.New(id, mbTrackID, path)
	if err != nil {
		return domitem.Item{}, false, fmt.Errorf("validate item: %w", err)
	}

	created, err := s.repo.Upsert(ctx, &it)
	if err != nil {
		return domitem.Item{}, false, fmt.Errorf("upsert item: %w", err)
	}
	if created {
		return it, true, nil
	}

	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return domitem.Item{}, false, fmt.Errorf("get item: %w", err)
	}
	return stored, false, nil
}

// Get retrieves an item by ID.
func (s *Service) Get(ctx context.Context, id string) (domitem.Item, error) {
	it, err := s.repo.Get(ctx, id)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// List returns all items.
func (s *Service) List(ctx context.Context) ([]domitem.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
