package v1

import (
	"github.com/andreyxaxa/Fitness-Center/internal/usecase"
	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
)

type V1 struct {
	tr     usecase.TransformationUseCase
	rec    usecase.RecommendationUseCase
	logger logger.Interface

	maxFileSize int64
}
