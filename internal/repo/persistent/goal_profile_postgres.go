package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/pkg/postgres"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/jackc/pgx/v5"
)

const goalsTable = "member_goals"

type GoalProfileRepo struct {
	*postgres.Postgres
}

func NewGoalProfileRepo(pg *postgres.Postgres) *GoalProfileRepo {
	return &GoalProfileRepo{pg}
}

// GetByOwner returns nil, nil when the member has not set goals.
func (r *GoalProfileRepo) GetByOwner(ctx context.Context, ownerID string) (*entity.GoalProfile, error) {
	sql, args, err := r.Builder.
		Select(
			"owner_id",
			"goal_type",
			"height_cm",
			"weight_kg",
			"target_weight_kg",
			"sessions_per_week",
			"notes",
			"updated_at",
		).
		From(goalsTable).
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("GoalProfileRepo - GetByOwner - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var p entity.GoalProfile
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&p.OwnerID,
		&p.GoalType,
		&p.HeightCm,
		&p.WeightKg,
		&p.TargetWeightKg,
		&p.SessionsPerWeek,
		&p.Notes,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("GoalProfileRepo - GetByOwner - executor.QueryRow: %w: %w", errs.ErrPersistence, err)
	}

	return &p, nil
}
