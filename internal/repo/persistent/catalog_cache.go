package persistent

import (
	"context"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitness_catalog_cache_hits_total",
		Help: "Catalog reads served from the in-memory cache.",
	})
	catalogCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitness_catalog_cache_misses_total",
		Help: "Catalog reads that went to the database.",
	})
)

const catalogKey = "services"

// CachedCatalogRepo keeps the service catalog in an expirable LRU.
// Errors are never cached.
type CachedCatalogRepo struct {
	next  repo.CatalogRepo
	cache *expirable.LRU[string, []entity.Service]
}

func NewCachedCatalogRepo(next repo.CatalogRepo, size int, ttl time.Duration) *CachedCatalogRepo {
	if size <= 0 {
		size = 1
	}

	return &CachedCatalogRepo{
		next:  next,
		cache: expirable.NewLRU[string, []entity.Service](size, nil, ttl),
	}
}

func (r *CachedCatalogRepo) ListServices(ctx context.Context) ([]entity.Service, error) {
	if services, ok := r.cache.Get(catalogKey); ok {
		catalogCacheHits.Inc()
		return cloneServices(services), nil
	}
	catalogCacheMisses.Inc()

	services, err := r.next.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	r.cache.Add(catalogKey, cloneServices(services))

	return services, nil
}

func cloneServices(in []entity.Service) []entity.Service {
	out := make([]entity.Service, len(in))
	copy(out, in)
	return out
}
