package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

const _defaultTimeout = 90 * time.Second

type Gemini struct {
	baseURL string
	timeout time.Duration

	Client *genai.Client
}

func New(ctx context.Context, apiKey string, opts ...Option) (*Gemini, error) {
	g := &Gemini{
		timeout: _defaultTimeout,
	}

	for _, opt := range opts {
		opt(g)
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: g.timeout},
	}
	if g.baseURL != "" {
		cc.HTTPOptions.BaseURL = g.baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini - New - genai.NewClient: %w", err)
	}
	g.Client = client

	return g, nil
}
