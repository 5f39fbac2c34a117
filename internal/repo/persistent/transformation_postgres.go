package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/pkg/postgres"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	transformationsTable = "transformation_requests"

	// Columns
	idColumn                    = "id"
	ownerIDColumn               = "owner_id"
	goalTypeColumn              = "goal_type"
	durationMonthsColumn        = "duration_months"
	startWeightKgColumn         = "start_weight_kg"
	originalImageRefColumn      = "original_image_ref"
	generatedImageRefColumn     = "generated_image_ref"
	expectedChangePercentColumn = "expected_change_percent"
	statusColumn                = "status"
	createdAtColumn             = "created_at"
	reconciledAtColumn          = "reconciled_at"
)

var transformationColumns = []string{
	idColumn,
	ownerIDColumn,
	goalTypeColumn,
	durationMonthsColumn,
	startWeightKgColumn,
	originalImageRefColumn,
	generatedImageRefColumn,
	expectedChangePercentColumn,
	statusColumn,
	createdAtColumn,
	reconciledAtColumn,
}

type TransformationRepo struct {
	*postgres.Postgres
}

func NewTransformationRepo(pg *postgres.Postgres) *TransformationRepo {
	return &TransformationRepo{pg}
}

func (r *TransformationRepo) Create(ctx context.Context, request *entity.TransformationRequest) error {
	sql, args, err := r.Builder.
		Insert(transformationsTable).
		Columns(
			idColumn,
			ownerIDColumn,
			goalTypeColumn,
			durationMonthsColumn,
			startWeightKgColumn,
			originalImageRefColumn,
			statusColumn,
			createdAtColumn,
		).
		Values(
			request.ID,
			request.OwnerID,
			request.GoalType,
			request.DurationMonths,
			request.StartWeightKg,
			request.OriginalImageRef,
			entity.TransformationPending,
			request.CreatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("TransformationRepo - Create - r.Builder.ToSql: %w", err)
	}

	// Pool / Tx
	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("TransformationRepo - Create - executor.Exec: %w: %w", errs.ErrPersistence, err)
	}

	return nil
}

// Reconcile attaches the AI result. The update only applies to a pending
// record, so a second writer can never overwrite an existing result.
func (r *TransformationRepo) Reconcile(
	ctx context.Context,
	id uuid.UUID,
	generatedImageRef string,
	expectedChangePercent float64,
	reconciledAt time.Time,
) error {
	sql, args, err := r.Builder.
		Update(transformationsTable).
		Set(generatedImageRefColumn, generatedImageRef).
		Set(expectedChangePercentColumn, expectedChangePercent).
		Set(statusColumn, entity.TransformationCompleted).
		Set(reconciledAtColumn, reconciledAt).
		Where(squirrel.And{
			squirrel.Eq{idColumn: id},
			squirrel.Eq{statusColumn: entity.TransformationPending},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("TransformationRepo - Reconcile - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("TransformationRepo - Reconcile - executor.Exec: %w: %w", errs.ErrPersistence, err)
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	// nothing updated: unknown id or the result is already there
	_, err = r.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("TransformationRepo - Reconcile: %w", err)
	}

	return fmt.Errorf("TransformationRepo - Reconcile: %w", errs.ErrAlreadyReconciled)
}

func (r *TransformationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.TransformationRequest, error) {
	sql, args, err := r.Builder.
		Select(transformationColumns...).
		From(transformationsTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("TransformationRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	request, err := scanTransformation(executor.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("TransformationRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("TransformationRepo - GetByID - executor.QueryRow: %w: %w", errs.ErrPersistence, err)
	}

	return request, nil
}

func (r *TransformationRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.TransformationRequest, error) {
	sql, args, err := r.Builder.
		Select(transformationColumns...).
		From(transformationsTable).
		Where(squirrel.Eq{ownerIDColumn: ownerID}).
		OrderBy(createdAtColumn+" DESC", idColumn+" DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("TransformationRepo - ListByOwner - r.Builder.ToSql: %w", err)
	}

	return r.list(ctx, "ListByOwner", sql, args)
}

func (r *TransformationRepo) list(ctx context.Context, op, sql string, args []any) ([]*entity.TransformationRequest, error) {
	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("TransformationRepo - %s - executor.Query: %w: %w", op, errs.ErrPersistence, err)
	}
	defer rows.Close()

	requests := make([]*entity.TransformationRequest, 0)
	for rows.Next() {
		request, err := scanTransformation(rows)
		if err != nil {
			return nil, fmt.Errorf("TransformationRepo - %s - rows.Scan: %w: %w", op, errs.ErrPersistence, err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("TransformationRepo - %s - rows.Err: %w: %w", op, errs.ErrPersistence, err)
	}

	return requests, nil
}

func scanTransformation(row pgx.Row) (*entity.TransformationRequest, error) {
	var request entity.TransformationRequest

	err := row.Scan(
		&request.ID,
		&request.OwnerID,
		&request.GoalType,
		&request.DurationMonths,
		&request.StartWeightKg,
		&request.OriginalImageRef,
		&request.GeneratedImageRef,
		&request.ExpectedChangePercent,
		&request.Status,
		&request.CreatedAt,
		&request.ReconciledAt,
	)
	if err != nil {
		return nil, err
	}

	return &request, nil
}
