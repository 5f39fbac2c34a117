package dto

import (
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/google/uuid"
)

// TransformationEvent is the outbox payload published to Kafka.
type TransformationEvent struct {
	Type                  entity.EventType `json:"type"`
	RequestID             uuid.UUID        `json:"request_id"`
	OwnerID               string           `json:"owner_id"`
	OriginalImageRef      string           `json:"original_image_ref"`
	GeneratedImageRef     *string          `json:"generated_image_ref,omitempty"`
	ExpectedChangePercent *float64         `json:"expected_change_percent,omitempty"`
	Attempt               int              `json:"attempt,omitempty"`
	Reason                string           `json:"reason,omitempty"`
}
