package persistent

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/pkg/postgres"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
)

const (
	gymsTable     = "gyms"
	servicesTable = "services"
)

type CatalogRepo struct {
	*postgres.Postgres
}

func NewCatalogRepo(pg *postgres.Postgres) *CatalogRepo {
	return &CatalogRepo{pg}
}

// ListServices returns every service with its gym, ordered by service name.
func (r *CatalogRepo) ListServices(ctx context.Context) ([]entity.Service, error) {
	sql, args, err := r.Builder.
		Select(
			"s.id",
			"s.name",
			"s.description",
			"s.duration_minutes",
			"g.id",
			"g.name",
			"g.address",
		).
		From(servicesTable + " s").
		Join(gymsTable + " g ON g.id = s.gym_id").
		OrderBy("s.name ASC", "s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CatalogRepo - ListServices - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("CatalogRepo - ListServices - executor.Query: %w: %w", errs.ErrPersistence, err)
	}
	defer rows.Close()

	services := make([]entity.Service, 0)
	for rows.Next() {
		var s entity.Service
		err = rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.DurationMinutes,
			&s.Gym.ID,
			&s.Gym.Name,
			&s.Gym.Address,
		)
		if err != nil {
			return nil, fmt.Errorf("CatalogRepo - ListServices - rows.Scan: %w: %w", errs.ErrPersistence, err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CatalogRepo - ListServices - rows.Err: %w: %w", errs.ErrPersistence, err)
	}

	return services, nil
}
