package item

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/abmeta/internal/domain"
	domitem "github.com/kailas-cloud/abmeta/internal/domain/item"
)

// --- Mocks ---

type mockRepo struct {
	upserted   domitem.Item
	created    bool
	getResult  domitem.Item
	listResult []domitem.Item
	upsertErr  error
	getErr     error
	listErr    error
	deleteErr  error
}

func (m *mockRepo) Upsert(_ context.Context, it *domitem.Item) (bool, error) {
	m.upserted = *it
	return m.created, m.upsertErr
}

func (m *mockRepo) Get(_ context.Context, _ string) (domitem.Item, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) List(_ context.Context) ([]domitem.Item, error) {
	return m.listResult, m.listErr
}

func (m *mockRepo) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

const testMBID = "B1A9C0E9-D987-4042-AE91-78D6A3267D69"

// --- Tests ---

func TestRegister_Created(t *testing.T) {
	repo := &mockRepo{created: true}
	svc := New(repo)

	it, created, err := svc.Register(context.Background(), "track-1", testMBID, "/a.flac")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if it.MBTrackID() != "b1a9c0e9-d987-4042-ae91-78d6a3267d69" {
		t.Errorf("expected normalised MBID, got %q", it.MBTrackID())
	}
	if repo.upserted.ID() != "track-1" || repo.upserted.Path() != "/a.flac" {
		t.Errorf("unexpected upserted item: %v", repo.upserted)
	}
}

func TestRegister_UpdatedReturnsStored(t *testing.T) {
	stored := domitem.Reconstruct("track-1", "", "/b.flac", map[string]string{"bpm": "120"}, time.Time{})
	repo := &mockRepo{getResult: stored}
	svc := New(repo)

	it, created, err := svc.Register(context.Background(), "track-1", "", "/b.flac")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false")
	}
	if v, _ := it.Attribute("bpm"); v != "120" {
		t.Errorf("expected stored attributes, got %v", it.Attributes())
	}
}

func TestRegister_Invalid(t *testing.T) {
	tests := []struct {
		name, id, mbid string
	}{
		{"empty id", "", ""},
		{"bad id", "a b", ""},
		{"bad mbid", "track-1", "not-a-uuid"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(&mockRepo{})
			_, _, err := svc.Register(context.Background(), tc.id, tc.mbid, "")
			if !errors.Is(err, domain.ErrInvalidItem) {
				t.Fatalf("expected ErrInvalidItem, got %v", err)
			}
		})
	}
}

func TestRegister_RepoError(t *testing.T) {
	svc := New(&mockRepo{upsertErr: errors.New("connection lost")})

	if _, _, err := svc.Register(context.Background(), "track-1", "", ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(&mockRepo{getErr: domain.ErrItemNotFound})

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	a, _ := domitem.New("a", "", "")
	svc := New(&mockRepo{listResult: []domitem.Item{a}})

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID() != "a" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestList_Error(t *testing.T) {
	svc := New(&mockRepo{listErr: errors.New("connection lost")})

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDelete(t *testing.T) {
	if err := New(&mockRepo{}).Delete(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := New(&mockRepo{deleteErr: domain.ErrItemNotFound}).Delete(context.Background(), "a")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
