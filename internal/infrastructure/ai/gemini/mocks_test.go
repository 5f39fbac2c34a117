package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"google.golang.org/genai"
)

type mockGenerator struct {
	GenerateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	calls               int
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	return m.GenerateContentFunc(ctx, model, contents, config)
}

type memoryImageStore struct {
	mu    sync.Mutex
	files map[string][]byte
	seq   int
}

func newMemoryImageStore() *memoryImageStore {
	return &memoryImageStore{files: make(map[string][]byte)}
}

func (s *memoryImageStore) Save(_ context.Context, scope repo.ImageScope, data io.Reader, originalName string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errs.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	ref := fmt.Sprintf("/uploads/%s/%d-%s", scope, s.seq, originalName)
	s.files[ref] = b

	return ref, nil
}

func (s *memoryImageStore) Open(_ context.Context, ref string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[ref]
	if !ok {
		return nil, "", errs.ErrRecordNotFound
	}

	return io.NopCloser(bytes.NewReader(b)), "image/jpeg", nil
}

func (s *memoryImageStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, ref)
	return nil
}

type mockProcessor struct {
	PrepareFunc func(ctx context.Context, data []byte, maxSide int) ([]byte, error)
	LabelFunc   func(ctx context.Context, contentType string, data []byte, text string) ([]byte, error)
}

func (m *mockProcessor) Prepare(ctx context.Context, data []byte, maxSide int) ([]byte, error) {
	if m.PrepareFunc == nil {
		return data, nil
	}
	return m.PrepareFunc(ctx, data, maxSide)
}

func (m *mockProcessor) Label(ctx context.Context, contentType string, data []byte, text string) ([]byte, error) {
	if m.LabelFunc == nil {
		return data, nil
	}
	return m.LabelFunc(ctx, contentType, data, text)
}

func responseWith(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: parts}},
		},
	}
}
