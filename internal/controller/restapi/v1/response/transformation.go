package response

import (
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
)

const imagesPrefix = "/v1/images"

type Transformation struct {
	ID                    string   `json:"id"`
	GoalType              string   `json:"goal_type" example:"cut"`
	DurationMonths        int      `json:"duration_months" example:"12"`
	StartWeightKg         *float64 `json:"start_weight_kg,omitempty" example:"90"`
	OriginalImageURL      string   `json:"original_image_url"`
	GeneratedImageURL     *string  `json:"generated_image_url,omitempty"`
	ExpectedChangePercent *float64 `json:"expected_change_percent,omitempty" example:"12.5"`
	Status                string   `json:"status" example:"completed"`
	CreatedAt             string   `json:"created_at"`
	ReconciledAt          *string  `json:"reconciled_at,omitempty"`
}

type SubmitTransformation struct {
	Transformation Transformation `json:"transformation"`
	Degraded       bool           `json:"degraded"`
	Notice         string         `json:"notice,omitempty"`
}

type TransformationHistory struct {
	Transformations []Transformation `json:"transformations"`
}

func NewTransformation(r *entity.TransformationRequest) Transformation {
	t := Transformation{
		ID:                    r.ID.String(),
		GoalType:              string(r.GoalType),
		DurationMonths:        r.DurationMonths,
		StartWeightKg:         r.StartWeightKg,
		OriginalImageURL:      imageURL(r.OriginalImageRef),
		ExpectedChangePercent: r.ExpectedChangePercent,
		Status:                string(r.Status),
		CreatedAt:             r.CreatedAt.Format(time.RFC3339),
	}

	if r.GeneratedImageRef != nil {
		url := imageURL(*r.GeneratedImageRef)
		t.GeneratedImageURL = &url
	}
	if r.ReconciledAt != nil {
		at := r.ReconciledAt.Format(time.RFC3339)
		t.ReconciledAt = &at
	}

	return t
}

func NewTransformationHistory(requests []*entity.TransformationRequest) TransformationHistory {
	h := TransformationHistory{Transformations: make([]Transformation, 0, len(requests))}
	for _, r := range requests {
		h.Transformations = append(h.Transformations, NewTransformation(r))
	}

	return h
}

// imageURL serves stored refs through the images route. Anything else the
// provider returned is passed through.
func imageURL(ref string) string {
	if len(ref) > 0 && ref[0] == '/' {
		return imagesPrefix + ref
	}

	return ref
}
