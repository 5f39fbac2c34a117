package usecase

import (
	"context"
	"io"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/google/uuid"
)

type (
	TransformationUseCase interface {
		Submit(ctx context.Context, in dto.SubmitTransformation) (dto.TransformationResult, error)
		ListByOwner(ctx context.Context, ownerID string) ([]*entity.TransformationRequest, error)
		OpenImage(ctx context.Context, ref string) (io.ReadCloser, string, error)
		ReconcileUseCase
		OutboxUseCase
	}

	// ReconcileUseCase is what the Kafka reconciliation controller needs.
	ReconcileUseCase interface {
		RetryReconcile(ctx context.Context, id uuid.UUID, attempt int) error
	}

	// OutboxUseCase is what the outbox relay needs.
	OutboxUseCase interface {
		ClaimPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error
		IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		CleanupOutbox(ctx context.Context) error
	}

	RecommendationUseCase interface {
		Plan(ctx context.Context, ownerID string) (dto.RecommendationPlan, error)
	}
)
