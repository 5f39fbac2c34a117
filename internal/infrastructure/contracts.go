package infrastructure

import (
	"context"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/segmentio/kafka-go"
)

type (
	EventsSender interface {
		SendEvents(ctx context.Context, events []*entity.OutboxEvent) error
		Close() error
	}

	// EventsReader reads events at least once: a message is redelivered until
	// it is committed.
	EventsReader interface {
		ReadEvent(ctx context.Context) (kafka.Message, error)
		CommitEvent(ctx context.Context, event kafka.Message) error
		Close() error
	}

	// TransformationAI produces a goal body projection for a stored photo.
	TransformationAI interface {
		Generate(ctx context.Context, in dto.TransformationInput) (dto.TransformationOutput, error)
	}

	// RecommendationAI writes an exercise plan. profile may be nil.
	RecommendationAI interface {
		Plan(ctx context.Context, profile *entity.GoalProfile, catalog []entity.Service) (string, error)
	}

	ImageProcessor interface {
		Prepare(ctx context.Context, data []byte, maxSide int) ([]byte, error)
		Label(ctx context.Context, contentType string, data []byte, text string) ([]byte, error)
	}
)
