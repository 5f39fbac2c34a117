// Package gemini implements the AI clients on top of the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"google.golang.org/genai"
)

// Generator is the part of genai.Models the clients need.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Disabled is used when no API key is configured. Every call fails, so the
// orchestrators fall back to their degraded results.
type Disabled struct{}

func (Disabled) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return nil, fmt.Errorf("gemini: api key is not configured: %w", errs.ErrAIProvider)
}

// firstCandidate returns the parts of the first candidate or a descriptive
// error when the model produced nothing usable.
func firstCandidate(resp *genai.GenerateContentResponse) ([]*genai.Part, error) {
	if resp == nil {
		return nil, errors.New("empty response")
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, errors.New("no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty candidate (finish_reason=%q)", candidate.FinishReason)
	}

	return candidate.Content.Parts, nil
}

func joinText(parts []*genai.Part) string {
	var sb strings.Builder
	for _, part := range parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(part.Text)
	}

	return strings.TrimSpace(sb.String())
}

func firstImage(parts []*genai.Part) *genai.Blob {
	for _, part := range parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if part.InlineData.MIMEType == "" || strings.HasPrefix(part.InlineData.MIMEType, "image/") {
			return part.InlineData
		}
	}

	return nil
}
