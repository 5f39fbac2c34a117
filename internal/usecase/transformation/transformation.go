package transformation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure"
	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/google/uuid"
)

const (
	_defaultMaxReconcileAttempts = 3
	_defaultOutboxRetention      = 24 * time.Hour
)

// UseCase runs a transformation request through
// Ingesting -> Persisted -> AwaitingAI -> Reconciled | DegradedFallback.
type UseCase struct {
	images     repo.ImageStore
	records    repo.TransformationRepo
	outbox     repo.OutboxRepo
	transactor repo.Transactor
	ai         infrastructure.TransformationAI

	logger logger.Interface

	eventsEnabled        bool
	maxReconcileAttempts int
	outboxRetention      time.Duration
	now                  func() time.Time
}

func New(
	images repo.ImageStore,
	records repo.TransformationRepo,
	outbox repo.OutboxRepo,
	transactor repo.Transactor,
	ai infrastructure.TransformationAI,
	l logger.Interface,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		images:               images,
		records:              records,
		outbox:               outbox,
		transactor:           transactor,
		ai:                   ai,
		logger:               l,
		maxReconcileAttempts: _defaultMaxReconcileAttempts,
		outboxRetention:      _defaultOutboxRetention,
		now:                  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

func (uc *UseCase) Submit(ctx context.Context, in dto.SubmitTransformation) (dto.TransformationResult, error) {
	var result dto.TransformationResult

	// 1. validate input, nothing is stored on failure
	if err := validateSubmission(in); err != nil {
		submissionsTotal.WithLabelValues(outcomeRejected).Inc()
		return result, fmt.Errorf("TransformationUseCase - Submit - validateSubmission: %w", err)
	}

	// 2. store the original photo
	originalRef, err := uc.images.Save(ctx, repo.ScopeOriginal, in.Image, in.OriginalFileName)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			submissionsTotal.WithLabelValues(outcomeRejected).Inc()
			return result, fmt.Errorf("TransformationUseCase - Submit - uc.images.Save: %w", err)
		}
		submissionsTotal.WithLabelValues(outcomePersistence).Inc()
		return result, fmt.Errorf("TransformationUseCase - Submit - uc.images.Save: %w: %w", errs.ErrPersistence, err)
	}

	// 3. resolve the owner
	if in.OwnerID == "" {
		uc.deleteImage(ctx, originalRef)
		submissionsTotal.WithLabelValues(outcomeRejected).Inc()
		return result, fmt.Errorf("TransformationUseCase - Submit: %w", errs.ErrAuthenticationRequired)
	}

	request := &entity.TransformationRequest{
		ID:               uuid.New(),
		OwnerID:          in.OwnerID,
		GoalType:         in.GoalType,
		DurationMonths:   in.DurationMonths,
		StartWeightKg:    in.StartWeightKg,
		OriginalImageRef: originalRef,
		Status:           entity.TransformationPending,
		CreatedAt:        uc.now().UTC(),
	}

	// 4. persist the record before any external call
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return uc.records.Create(ctx, request)
	})
	if err != nil {
		uc.deleteImage(ctx, originalRef)
		submissionsTotal.WithLabelValues(outcomePersistence).Inc()
		return result, fmt.Errorf("TransformationUseCase - Submit - uc.records.Create: %w", asPersistence(err))
	}

	// 5. ask the AI provider
	out, err := uc.ai.Generate(ctx, toInput(request))

	// the record is committed, finish the bookkeeping even if the caller is gone
	persistCtx := context.WithoutCancel(ctx)

	if err != nil {
		uc.logger.Error(err, "TransformationUseCase - Submit - uc.ai.Generate: request_id=%s original_image=%s goal=%s months=%d",
			request.ID, request.OriginalImageRef, request.GoalType, request.DurationMonths)
		submissionsTotal.WithLabelValues(outcomeDegraded).Inc()

		uc.recordDegraded(persistCtx, request, 1, err)

		result.Request = request
		result.Degraded = true
		result.Notice = dto.DegradedTransformationNotice

		return result, nil
	}

	// 6. reconcile
	reconciledAt := uc.now().UTC()
	err = uc.reconcileWithEvent(persistCtx, request, out, reconciledAt, 1)
	if err != nil {
		uc.deleteImage(persistCtx, out.GeneratedImageRef)
		submissionsTotal.WithLabelValues(outcomePersistence).Inc()
		return result, fmt.Errorf("TransformationUseCase - Submit - uc.reconcileWithEvent: %w", asPersistence(err))
	}

	applyOutput(request, out, reconciledAt)
	submissionsTotal.WithLabelValues(outcomeReconciled).Inc()

	result.Request = request

	return result, nil
}

func (uc *UseCase) ListByOwner(ctx context.Context, ownerID string) ([]*entity.TransformationRequest, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("TransformationUseCase - ListByOwner: %w", errs.ErrAuthenticationRequired)
	}

	requests, err := uc.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("TransformationUseCase - ListByOwner - uc.records.ListByOwner: %w", err)
	}

	return requests, nil
}

func (uc *UseCase) OpenImage(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	body, contentType, err := uc.images.Open(ctx, ref)
	if err != nil {
		return nil, "", fmt.Errorf("TransformationUseCase - OpenImage - uc.images.Open: %w", err)
	}

	return body, contentType, nil
}

// RetryReconcile makes one more AI attempt for a degraded record. attempt is
// the number of this attempt, counting the synchronous one as 1.
func (uc *UseCase) RetryReconcile(ctx context.Context, id uuid.UUID, attempt int) error {
	request, err := uc.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			uc.logger.Warn("TransformationUseCase - RetryReconcile - record %s not found, dropping", id)
			backgroundReconcilesTotal.WithLabelValues(outcomeDropped).Inc()
			return nil
		}
		return fmt.Errorf("TransformationUseCase - RetryReconcile - uc.records.GetByID: %w", err)
	}

	if request.Reconciled() {
		backgroundReconcilesTotal.WithLabelValues(outcomeNoop).Inc()
		return nil
	}

	out, err := uc.ai.Generate(ctx, toInput(request))
	if err != nil {
		uc.logger.Error(err, "TransformationUseCase - RetryReconcile - uc.ai.Generate: request_id=%s original_image=%s goal=%s months=%d attempt=%d",
			request.ID, request.OriginalImageRef, request.GoalType, request.DurationMonths, attempt)

		if attempt >= uc.maxReconcileAttempts {
			uc.logger.Warn("TransformationUseCase - RetryReconcile - giving up on %s after %d attempts", request.ID, attempt)
			backgroundReconcilesTotal.WithLabelValues(outcomeGaveUp).Inc()
			return nil
		}

		backgroundReconcilesTotal.WithLabelValues(outcomeDegraded).Inc()

		event, err := newDegradedEvent(request, attempt, err, uc.now())
		if err != nil {
			return fmt.Errorf("TransformationUseCase - RetryReconcile - newDegradedEvent: %w", err)
		}
		if err := uc.outbox.Create(ctx, event); err != nil {
			return fmt.Errorf("TransformationUseCase - RetryReconcile - uc.outbox.Create: %w", err)
		}

		return nil
	}

	err = uc.reconcileWithEvent(ctx, request, out, uc.now().UTC(), attempt)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyReconciled) {
			// another attempt won, its result stays
			uc.deleteImage(ctx, out.GeneratedImageRef)
			backgroundReconcilesTotal.WithLabelValues(outcomeNoop).Inc()
			return nil
		}
		return fmt.Errorf("TransformationUseCase - RetryReconcile - uc.reconcileWithEvent: %w", err)
	}

	backgroundReconcilesTotal.WithLabelValues(outcomeReconciled).Inc()
	uc.logger.Info("TransformationUseCase - RetryReconcile - request %s reconciled on attempt %d", request.ID, attempt)

	return nil
}

// reconcileWithEvent attaches the AI result and, when events are on, writes
// the reconciled event in the same transaction.
func (uc *UseCase) reconcileWithEvent(
	ctx context.Context,
	request *entity.TransformationRequest,
	out dto.TransformationOutput,
	reconciledAt time.Time,
	attempt int,
) error {
	return uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		err := uc.records.Reconcile(ctx, request.ID, out.GeneratedImageRef, out.ExpectedChangePercent, reconciledAt)
		if err != nil {
			return fmt.Errorf("uc.records.Reconcile: %w", err)
		}

		if !uc.eventsEnabled {
			return nil
		}

		event, err := newReconciledEvent(request, out, attempt, reconciledAt)
		if err != nil {
			return fmt.Errorf("newReconciledEvent: %w", err)
		}

		if err := uc.outbox.Create(ctx, event); err != nil {
			return fmt.Errorf("uc.outbox.Create: %w", err)
		}

		return nil
	})
}

// recordDegraded queues a background retry. Failures are only logged.
func (uc *UseCase) recordDegraded(ctx context.Context, request *entity.TransformationRequest, attempt int, cause error) {
	if !uc.eventsEnabled || attempt >= uc.maxReconcileAttempts {
		return
	}

	event, err := newDegradedEvent(request, attempt, cause, uc.now())
	if err != nil {
		uc.logger.Error(err, "TransformationUseCase - recordDegraded - newDegradedEvent: request_id=%s", request.ID)
		return
	}

	if err := uc.outbox.Create(ctx, event); err != nil {
		uc.logger.Error(err, "TransformationUseCase - recordDegraded - uc.outbox.Create: request_id=%s", request.ID)
	}
}

func (uc *UseCase) deleteImage(ctx context.Context, ref string) {
	if err := uc.images.Delete(context.WithoutCancel(ctx), ref); err != nil {
		uc.logger.Warn("TransformationUseCase - failed to delete image ref=%s, error=%v", ref, err)
	}
}

func validateSubmission(in dto.SubmitTransformation) error {
	if in.Image == nil || in.ImageSize <= 0 {
		return fmt.Errorf("image is required: %w", errs.ErrValidation)
	}
	if !in.GoalType.Valid() {
		return fmt.Errorf("unknown goal type %q: %w", in.GoalType, errs.ErrValidation)
	}
	if in.DurationMonths <= 0 {
		return fmt.Errorf("duration must be positive, got %d: %w", in.DurationMonths, errs.ErrValidation)
	}
	if w := in.StartWeightKg; w != nil && (*w <= 0 || math.IsNaN(*w) || math.IsInf(*w, 0)) {
		return fmt.Errorf("start weight must be positive: %w", errs.ErrValidation)
	}

	return nil
}

func asPersistence(err error) error {
	if errors.Is(err, errs.ErrPersistence) {
		return err
	}

	return fmt.Errorf("%w: %w", errs.ErrPersistence, err)
}
