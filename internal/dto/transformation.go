package dto

import (
	"io"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/google/uuid"
)

// DegradedTransformationNotice is shown next to the original image when the
// projection could not be generated.
const DegradedTransformationNotice = "The AI service cannot respond right now. Showing the original image."

type SubmitTransformation struct {
	OwnerID        string
	GoalType       entity.GoalType
	DurationMonths int
	StartWeightKg  *float64

	Image            io.Reader
	ImageSize        int64
	OriginalFileName string
}

type TransformationResult struct {
	Request  *entity.TransformationRequest
	Degraded bool
	Notice   string
}

// TransformationInput is what the AI provider receives for one request.
type TransformationInput struct {
	RequestID        uuid.UUID
	OriginalImageRef string
	GoalType         entity.GoalType
	DurationMonths   int
	StartWeightKg    *float64
}

type TransformationOutput struct {
	GeneratedImageRef     string
	ExpectedChangePercent float64
}
