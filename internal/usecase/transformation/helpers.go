package transformation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/google/uuid"
)

func toInput(request *entity.TransformationRequest) dto.TransformationInput {
	return dto.TransformationInput{
		RequestID:        request.ID,
		OriginalImageRef: request.OriginalImageRef,
		GoalType:         request.GoalType,
		DurationMonths:   request.DurationMonths,
		StartWeightKg:    request.StartWeightKg,
	}
}

func applyOutput(request *entity.TransformationRequest, out dto.TransformationOutput, reconciledAt time.Time) {
	ref := out.GeneratedImageRef
	percent := out.ExpectedChangePercent

	request.GeneratedImageRef = &ref
	request.ExpectedChangePercent = &percent
	request.Status = entity.TransformationCompleted
	request.ReconciledAt = &reconciledAt
}

func newReconciledEvent(
	request *entity.TransformationRequest,
	out dto.TransformationOutput,
	attempt int,
	now time.Time,
) (*entity.OutboxEvent, error) {
	ref := out.GeneratedImageRef
	percent := out.ExpectedChangePercent

	return newOutboxEvent(request.ID, now, dto.TransformationEvent{
		Type:                  entity.EventTransformationReconciled,
		RequestID:             request.ID,
		OwnerID:               request.OwnerID,
		OriginalImageRef:      request.OriginalImageRef,
		GeneratedImageRef:     &ref,
		ExpectedChangePercent: &percent,
		Attempt:               attempt,
	})
}

func newDegradedEvent(request *entity.TransformationRequest, attempt int, cause error, now time.Time) (*entity.OutboxEvent, error) {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}

	return newOutboxEvent(request.ID, now, dto.TransformationEvent{
		Type:             entity.EventTransformationDegraded,
		RequestID:        request.ID,
		OwnerID:          request.OwnerID,
		OriginalImageRef: request.OriginalImageRef,
		Attempt:          attempt,
		Reason:           reason,
	})
}

func newOutboxEvent(requestID uuid.UUID, now time.Time, payload dto.TransformationEvent) (*entity.OutboxEvent, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("newOutboxEvent - json.Marshal: %w", err)
	}

	return &entity.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: requestID,
		Type:        payload.Type,
		Payload:     b,
		Status:      entity.Pending,
		CreatedAt:   now.UTC(),
		RetryCount:  0,
	}, nil
}

func eventIDs(events []*entity.OutboxEvent) uuid.UUIDs {
	IDs := make(uuid.UUIDs, 0, len(events))
	for _, event := range events {
		IDs = append(IDs, event.ID)
	}

	return IDs
}
