package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"google.golang.org/genai"
)

var testCatalog = []entity.Service{
	{ID: 1, Name: "Boxing", DurationMinutes: 45, Gym: entity.Gym{Name: "Central"}},
	{ID: 2, Name: "Yoga", Description: "stretching", DurationMinutes: 60, Gym: entity.Gym{Name: "North"}},
}

func TestPlannerWithoutProfileSkipsModel(t *testing.T) {
	gen := &mockGenerator{
		GenerateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			t.Fatal("model must not be called without a profile")
			return nil, nil
		},
	}

	plan, err := NewPlanner(gen, "").Plan(context.Background(), nil, testCatalog)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !strings.Contains(plan, "Set your fitness goals") || !strings.Contains(plan, "Boxing at Central") {
		t.Fatalf("unexpected plan %q", plan)
	}
}

func TestPlannerSendsProfileAndCatalog(t *testing.T) {
	var prompt string
	var system string

	gen := &mockGenerator{
		GenerateContentFunc: func(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			if model != "text-model" {
				t.Errorf("model = %q", model)
			}
			prompt = contents[0].Parts[0].Text
			system = cfg.SystemInstruction.Parts[0].Text
			return responseWith(&genai.Part{Text: "  Monday: Boxing at Central  "}), nil
		},
	}

	weight := 82.0
	profile := &entity.GoalProfile{OwnerID: "alice", GoalType: entity.GoalBulk, WeightKg: &weight, SessionsPerWeek: 4}

	plan, err := NewPlanner(gen, "text-model").Plan(context.Background(), profile, testCatalog)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan != "Monday: Boxing at Central" {
		t.Fatalf("plan = %q", plan)
	}
	for _, want := range []string{"bulk", "82.0 kg", "4", "Yoga at North (60 min): stretching"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt %q does not mention %q", prompt, want)
		}
	}
	if !strings.Contains(system, "catalog") {
		t.Errorf("system prompt = %q", system)
	}
}

func TestPlannerFailures(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
	}{
		{name: "provider error", err: errors.New("503")},
		{name: "blocked prompt", resp: &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
		}},
		{name: "empty text", resp: responseWith(&genai.Part{Text: "   "})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{
				GenerateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					return tt.resp, tt.err
				},
			}

			_, err := NewPlanner(gen, "").Plan(context.Background(), &entity.GoalProfile{GoalType: entity.GoalCut}, nil)
			if !errors.Is(err, errs.ErrAIProvider) {
				t.Fatalf("err = %v, want ErrAIProvider", err)
			}
		})
	}
}
