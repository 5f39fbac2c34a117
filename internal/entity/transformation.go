package entity

import (
	"time"

	"github.com/google/uuid"
)

type GoalType string

const (
	GoalCut           GoalType = "cut"
	GoalBulk          GoalType = "bulk"
	GoalRecomposition GoalType = "recomposition"
)

func (g GoalType) Valid() bool {
	switch g {
	case GoalCut, GoalBulk, GoalRecomposition:
		return true
	default:
		return false
	}
}

type TransformationStatus string

const (
	TransformationPending   TransformationStatus = "pending"
	TransformationCompleted TransformationStatus = "completed"
)

// TransformationRequest is one member's request for a goal body projection.
// GeneratedImageRef and ExpectedChangePercent are both nil until the single
// reconciliation step sets them together.
type TransformationRequest struct {
	ID      uuid.UUID `json:"id"`
	OwnerID string    `json:"owner_id"`

	GoalType       GoalType `json:"goal_type"`
	DurationMonths int      `json:"duration_months"`
	StartWeightKg  *float64 `json:"start_weight_kg,omitempty"`

	OriginalImageRef      string   `json:"original_image_ref"`
	GeneratedImageRef     *string  `json:"generated_image_ref,omitempty"`
	ExpectedChangePercent *float64 `json:"expected_change_percent,omitempty"`

	Status       TransformationStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	ReconciledAt *time.Time           `json:"reconciled_at,omitempty"`
}

func (r *TransformationRequest) Reconciled() bool {
	return r.GeneratedImageRef != nil && r.ExpectedChangePercent != nil
}
