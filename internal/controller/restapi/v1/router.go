package v1

import (
	"github.com/andreyxaxa/Fitness-Center/internal/controller/restapi/v1/validate"
	"github.com/andreyxaxa/Fitness-Center/internal/usecase"
	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// NewRoutes registers the member API. maxFileSize <= 0 falls back to
// validate.MaxFileSize.
func NewRoutes(
	apiV1Group fiber.Router,
	tr usecase.TransformationUseCase,
	rec usecase.RecommendationUseCase,
	l logger.Interface,
	maxFileSize int64,
) {
	if maxFileSize <= 0 {
		maxFileSize = validate.MaxFileSize
	}

	r := &V1{tr: tr, rec: rec, logger: l, maxFileSize: maxFileSize}

	{
		apiV1Group.Post("/transformations", r.submitTransformation)
		apiV1Group.Get("/transformations", r.listTransformations)
		apiV1Group.Get("/recommendations", r.getRecommendations)
		apiV1Group.Get("/images/uploads/:scope/:name", r.getImage)
	}
}
