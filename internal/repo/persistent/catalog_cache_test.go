package persistent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
)

type mockCatalogRepo struct {
	ListServicesFunc func(ctx context.Context) ([]entity.Service, error)
	calls            int
}

func (m *mockCatalogRepo) ListServices(ctx context.Context) ([]entity.Service, error) {
	m.calls++
	return m.ListServicesFunc(ctx)
}

func TestCachedCatalogRepoServesFromCache(t *testing.T) {
	next := &mockCatalogRepo{
		ListServicesFunc: func(context.Context) ([]entity.Service, error) {
			return []entity.Service{{ID: 1, Name: "Boxing", Gym: entity.Gym{ID: 1, Name: "Central"}}}, nil
		},
	}
	c := NewCachedCatalogRepo(next, 4, time.Minute)

	for i := 0; i < 3; i++ {
		services, err := c.ListServices(context.Background())
		if err != nil {
			t.Fatalf("ListServices: %v", err)
		}
		if len(services) != 1 || services[0].Name != "Boxing" {
			t.Fatalf("unexpected services %+v", services)
		}
		services[0].Name = "mutated"
	}

	if next.calls != 1 {
		t.Fatalf("underlying repo called %d times, want 1", next.calls)
	}
}

func TestCachedCatalogRepoDoesNotCacheErrors(t *testing.T) {
	fail := true
	next := &mockCatalogRepo{
		ListServicesFunc: func(context.Context) ([]entity.Service, error) {
			if fail {
				return nil, errors.New("db down")
			}
			return []entity.Service{{ID: 2, Name: "Yoga"}}, nil
		},
	}
	c := NewCachedCatalogRepo(next, 4, time.Minute)

	if _, err := c.ListServices(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	fail = false
	services, err := c.ListServices(context.Background())
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("unexpected services %+v", services)
	}
	if next.calls != 2 {
		t.Fatalf("underlying repo called %d times, want 2", next.calls)
	}
}

func TestCachedCatalogRepoExpires(t *testing.T) {
	next := &mockCatalogRepo{
		ListServicesFunc: func(context.Context) ([]entity.Service, error) {
			return []entity.Service{}, nil
		},
	}
	c := NewCachedCatalogRepo(next, 4, 20*time.Millisecond)

	_, _ = c.ListServices(context.Background())
	time.Sleep(60 * time.Millisecond)
	_, _ = c.ListServices(context.Background())

	if next.calls != 2 {
		t.Fatalf("underlying repo called %d times, want 2", next.calls)
	}
}
