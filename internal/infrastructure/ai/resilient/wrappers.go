package resilient

import (
	"context"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure"
	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
)

type Transformer struct {
	next   infrastructure.TransformationAI
	policy Policy
	l      logger.Interface
}

func NewTransformer(next infrastructure.TransformationAI, policy Policy, l logger.Interface) *Transformer {
	return &Transformer{next: next, policy: policy.withDefaults(), l: l}
}

func (t *Transformer) Generate(ctx context.Context, in dto.TransformationInput) (dto.TransformationOutput, error) {
	return call(ctx, t.policy, t.l, "transformation", func(ctx context.Context) (dto.TransformationOutput, error) {
		return t.next.Generate(ctx, in)
	})
}

type Planner struct {
	next   infrastructure.RecommendationAI
	policy Policy
	l      logger.Interface
}

func NewPlanner(next infrastructure.RecommendationAI, policy Policy, l logger.Interface) *Planner {
	return &Planner{next: next, policy: policy.withDefaults(), l: l}
}

func (p *Planner) Plan(ctx context.Context, profile *entity.GoalProfile, catalog []entity.Service) (string, error) {
	return call(ctx, p.policy, p.l, "recommendation", func(ctx context.Context) (string, error) {
		return p.next.Plan(ctx, profile, catalog)
	})
}
