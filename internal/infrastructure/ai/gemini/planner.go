package gemini

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"google.golang.org/genai"
)

const _defaultTextModel = "gemini-2.5-flash"

type Planner struct {
	gen   Generator
	model string
}

func NewPlanner(gen Generator, model string) *Planner {
	if model == "" {
		model = _defaultTextModel
	}

	return &Planner{gen: gen, model: model}
}

// Plan returns the model's plan. A nil profile never reaches the model.
func (p *Planner) Plan(ctx context.Context, profile *entity.GoalProfile, catalog []entity.Service) (string, error) {
	if profile == nil {
		return missingProfilePlan(catalog), nil
	}

	resp, err := p.gen.GenerateContent(ctx, p.model, genai.Text(plannerPrompt(profile, catalog)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(plannerSystemPrompt, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("Planner - Plan - p.gen.GenerateContent: %w: %w", errs.ErrAIProvider, err)
	}

	parts, err := firstCandidate(resp)
	if err != nil {
		return "", fmt.Errorf("Planner - Plan - firstCandidate: %w: %w", errs.ErrAIProvider, err)
	}

	text := joinText(parts)
	if text == "" {
		return "", fmt.Errorf("Planner - Plan: empty plan: %w", errs.ErrAIProvider)
	}

	return text, nil
}
