package repo

import (
	"context"
	"io"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/google/uuid"
)

// ImageScope is the fixed subpath an image is stored under.
type ImageScope string

const (
	ScopeOriginal  ImageScope = "original"
	ScopeGenerated ImageScope = "generated"
)

type (
	// ImageStore keeps uploaded and generated images. Refs returned by Save
	// look like /uploads/<scope>/<uuid><ext> for every backend.
	ImageStore interface {
		Save(ctx context.Context, scope ImageScope, data io.Reader, originalName string) (string, error)
		Open(ctx context.Context, ref string) (io.ReadCloser, string, error)
		Delete(ctx context.Context, ref string) error
	}

	TransformationRepo interface {
		Create(ctx context.Context, request *entity.TransformationRequest) error
		Reconcile(ctx context.Context, id uuid.UUID, generatedImageRef string, expectedChangePercent float64, reconciledAt time.Time) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.TransformationRequest, error)
		ListByOwner(ctx context.Context, ownerID string) ([]*entity.TransformationRequest, error)
	}

	OutboxRepo interface {
		Create(ctx context.Context, event *entity.OutboxEvent) error
		GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error
		IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		DeleteOldProcessedAndFailed(ctx context.Context, olderThan time.Time) (int64, error)
	}

	CatalogRepo interface {
		ListServices(ctx context.Context) ([]entity.Service, error)
	}

	// GoalProfileRepo returns nil, nil when the member has no goals yet.
	GoalProfileRepo interface {
		GetByOwner(ctx context.Context, ownerID string) (*entity.GoalProfile, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
