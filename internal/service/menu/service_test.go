package menu

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"quickbites-backend/internal/domain"
	menurepo "quickbites-backend/internal/repository/menu"
)

type stubRepo struct {
	item       *domain.MenuItem
	getErr     error
	getCalls   int
	created    menurepo.CreateInput
	createErr  error
	updated    menurepo.UpdateInput
	updateErr  error
	listFilter menurepo.ListFilter
	available  *bool
}

func (s *stubRepo) Create(_ context.Context, in menurepo.CreateInput) (*domain.MenuItem, error) {
	s.created = in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.MenuItem{ID: "m1", Name: in.Name, PriceCents: in.PriceCents, Category: in.Category, Image: in.Image, PreparationMins: in.PreparationMins, IsAvailable: true}, nil
}

func (s *stubRepo) Update(_ context.Context, id string, in menurepo.UpdateInput) (*domain.MenuItem, error) {
	s.updated = in
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &domain.MenuItem{ID: id}, nil
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.MenuItem, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.item, nil
}

func (s *stubRepo) List(_ context.Context, f menurepo.ListFilter) ([]domain.MenuItem, error) {
	s.listFilter = f
	if s.item == nil {
		return nil, nil
	}
	return []domain.MenuItem{*s.item}, nil
}

func (s *stubRepo) SetAvailability(_ context.Context, _ string, available bool) error {
	s.available = &available
	return nil
}

type memoryCache struct {
	values   map[string]string
	getErr   error
	delCalls []string
}

func (m *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *memoryCache) Del(_ context.Context, key string) error {
	m.delCalls = append(m.delCalls, key)
	delete(m.values, key)
	return nil
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestGetByIDCachesOnMiss(t *testing.T) {
	repo := &stubRepo{item: &domain.MenuItem{ID: "m1", Name: "Burger", PriceCents: 1500, IsAvailable: true}}
	c := &memoryCache{}
	svc := New(repo, c, time.Minute, discard())

	item, err := svc.GetByID(context.Background(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Name != "Burger" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if c.values["m1"] == "" {
		t.Fatal("expected item written to cache")
	}

	// Second lookup is served from the cache.
	if _, err := svc.GetByID(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.getCalls != 1 {
		t.Fatalf("expected one repo hit, got %d", repo.getCalls)
	}
}

func TestGetByIDCacheFailureFallsBack(t *testing.T) {
	repo := &stubRepo{item: &domain.MenuItem{ID: "m1", Name: "Burger"}}
	c := &memoryCache{getErr: errors.New("redis down")}
	svc := New(repo, c, time.Minute, discard())

	item, err := svc.GetByID(context.Background(), "m1")
	if err != nil || item.Name != "Burger" {
		t.Fatalf("expected repo fallback, got %+v, %v", item, err)
	}
}

func TestGetByIDNilCache(t *testing.T) {
	repo := &stubRepo{item: &domain.MenuItem{ID: "m1"}}
	svc := New(repo, nil, 0, discard())
	if _, err := svc.GetByID(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetByIDCorruptCacheEntryIgnored(t *testing.T) {
	repo := &stubRepo{item: &domain.MenuItem{ID: "m1", Name: "Burger"}}
	c := &memoryCache{values: map[string]string{"m1": "{not json"}}
	svc := New(repo, c, time.Minute, discard())

	item, err := svc.GetByID(context.Background(), "m1")
	if err != nil || item.Name != "Burger" {
		t.Fatalf("expected repo fallback past corrupt entry, got %+v, %v", item, err)
	}
}

func TestListPassesFilter(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil, 0, discard())
	if _, err := svc.List(context.Background(), "mains", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listFilter.Category != "mains" || !repo.listFilter.AvailableOnly {
		t.Fatalf("unexpected filter: %+v", repo.listFilter)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(&stubRepo{}, nil, 0, discard())
	var verr *domain.ValidationError

	if _, err := svc.Create(context.Background(), CreateInput{Name: "ab", PriceCents: 100, Category: "mains"}); !errors.As(err, &verr) {
		t.Fatalf("expected short name rejected, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "Burger", PriceCents: 0, Category: "mains"}); !errors.As(err, &verr) {
		t.Fatalf("expected zero price rejected, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "Burger", PriceCents: 100}); !errors.As(err, &verr) {
		t.Fatalf("expected missing category rejected, got %v", err)
	}
}

func TestCreateDefaults(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil, 0, discard())
	if _, err := svc.Create(context.Background(), CreateInput{Name: "  Burger  ", PriceCents: 1500, Category: "mains"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.created.Name != "Burger" {
		t.Fatalf("expected trimmed name, got %q", repo.created.Name)
	}
	if repo.created.Image != "default-food.jpg" || repo.created.PreparationMins != 15 {
		t.Fatalf("expected defaults applied, got %+v", repo.created)
	}
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := &stubRepo{}
	c := &memoryCache{values: map[string]string{"m1": mustJSON(t, &domain.MenuItem{ID: "m1"})}}
	svc := New(repo, c, time.Minute, discard())

	price := int64(1800)
	if _, err := svc.Update(context.Background(), "m1", UpdateInput{PriceCents: &price}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.delCalls) != 1 || c.delCalls[0] != "m1" {
		t.Fatalf("expected cache invalidation for m1, got %v", c.delCalls)
	}
}

func TestUpdateRejectsNonPositivePrice(t *testing.T) {
	svc := New(&stubRepo{}, nil, 0, discard())
	price := int64(0)
	var verr *domain.ValidationError
	if _, err := svc.Update(context.Background(), "m1", UpdateInput{PriceCents: &price}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetAvailabilityInvalidatesCache(t *testing.T) {
	repo := &stubRepo{}
	c := &memoryCache{}
	svc := New(repo, c, time.Minute, discard())

	if err := svc.SetAvailability(context.Background(), "m1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.available == nil || *repo.available {
		t.Fatalf("expected availability false persisted, got %v", repo.available)
	}
	if len(c.delCalls) != 1 {
		t.Fatalf("expected cache invalidation, got %v", c.delCalls)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}
