package transformation

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
)

// ClaimPendingEvents locks a batch of pending events and marks it processing
// in one transaction, so concurrent relays never publish the same event.
func (uc *UseCase) ClaimPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error) {
	var events []*entity.OutboxEvent

	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error

		events, err = uc.outbox.GetPendingEvents(ctx, maxRetries, limit)
		if err != nil {
			return fmt.Errorf("uc.outbox.GetPendingEvents: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		if err := uc.outbox.MarkAsProcessingBatch(ctx, eventIDs(events)); err != nil {
			return fmt.Errorf("uc.outbox.MarkAsProcessingBatch: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("TransformationUseCase - ClaimPendingEvents: %w", err)
	}

	for _, event := range events {
		event.Status = entity.Processing
	}

	return events, nil
}

func (uc *UseCase) MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	err := uc.outbox.MarkAsProcessedBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("TransformationUseCase - MarkAsProcessedBatch - uc.outbox.MarkAsProcessedBatch: %w", err)
	}

	return nil
}

func (uc *UseCase) IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	err := uc.outbox.IncrementRetryCountBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("TransformationUseCase - IncrementRetryCountBatch - uc.outbox.IncrementRetryCountBatch: %w", err)
	}

	return nil
}

func (uc *UseCase) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error {
	err := uc.outbox.MarkMaxRetriesAsFailed(ctx, maxRetries)
	if err != nil {
		return fmt.Errorf("TransformationUseCase - MarkMaxRetriesAsFailed - uc.outbox.MarkMaxRetriesAsFailed: %w", err)
	}

	return nil
}

func (uc *UseCase) CleanupOutbox(ctx context.Context) error {
	count, err := uc.outbox.DeleteOldProcessedAndFailed(ctx, uc.now().Add(-uc.outboxRetention))
	if err != nil {
		return fmt.Errorf("TransformationUseCase - CleanupOutbox - uc.outbox.DeleteOldProcessedAndFailed: %w", err)
	}

	if count > 0 {
		uc.logger.Info("deleted old outbox events, count = %d", count)
	}

	return nil
}
