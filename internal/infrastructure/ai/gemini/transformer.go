package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure"
	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"google.golang.org/genai"
)

const (
	_defaultImageModel    = "gemini-2.5-flash-image-preview"
	_defaultMaxInputBytes = 10 << 20
	_defaultMaxSide       = 1024

	generatedLabel = "AI projection"
)

type TransformerConfig struct {
	Model         string
	MaxInputBytes int64
	MaxSide       int
	Label         bool
}

// Transformer asks an image model to redraw the member photo and stores the
// result under the generated scope.
type Transformer struct {
	gen       Generator
	images    repo.ImageStore
	processor infrastructure.ImageProcessor
	cfg       TransformerConfig
}

func NewTransformer(gen Generator, images repo.ImageStore, processor infrastructure.ImageProcessor, cfg TransformerConfig) *Transformer {
	if cfg.Model == "" {
		cfg.Model = _defaultImageModel
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = _defaultMaxInputBytes
	}
	if cfg.MaxSide <= 0 {
		cfg.MaxSide = _defaultMaxSide
	}

	return &Transformer{
		gen:       gen,
		images:    images,
		processor: processor,
		cfg:       cfg,
	}
}

type transformationVerdict struct {
	ExpectedChangePercent *float64 `json:"expected_change_percent"`
}

func (t *Transformer) Generate(ctx context.Context, in dto.TransformationInput) (dto.TransformationOutput, error) {
	var out dto.TransformationOutput

	original, err := t.readOriginal(ctx, in.OriginalImageRef)
	if err != nil {
		return out, fmt.Errorf("Transformer - Generate - t.readOriginal: %w: %w", errs.ErrAIProvider, err)
	}

	prepared, err := t.processor.Prepare(ctx, original, t.cfg.MaxSide)
	if err != nil {
		return out, fmt.Errorf("Transformer - Generate - malformed input: %w: %w", errs.ErrAIProvider, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transformationPrompt(in)),
			genai.NewPartFromBytes(prepared, "image/jpeg"),
		}, genai.RoleUser),
	}

	resp, err := t.gen.GenerateContent(ctx, t.cfg.Model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return out, fmt.Errorf("Transformer - Generate - t.gen.GenerateContent: %w: %w", errs.ErrAIProvider, err)
	}

	parts, err := firstCandidate(resp)
	if err != nil {
		return out, fmt.Errorf("Transformer - Generate - firstCandidate: %w: %w", errs.ErrAIProvider, err)
	}

	image := firstImage(parts)
	if image == nil {
		return out, fmt.Errorf("Transformer - Generate: no image in response: %w", errs.ErrAIProvider)
	}

	var verdict transformationVerdict
	if err := decodeModelJSON(joinText(parts), &verdict); err != nil {
		return out, fmt.Errorf("Transformer - Generate - decodeModelJSON: %w: %w", errs.ErrAIProvider, err)
	}
	if verdict.ExpectedChangePercent == nil {
		return out, fmt.Errorf("Transformer - Generate: expected_change_percent missing: %w", errs.ErrAIProvider)
	}
	percent := *verdict.ExpectedChangePercent
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return out, fmt.Errorf("Transformer - Generate: expected_change_percent is not finite: %w", errs.ErrAIProvider)
	}

	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}

	data := image.Data
	if t.cfg.Label {
		data, err = t.processor.Label(ctx, mimeType, data, generatedLabel)
		if err != nil {
			return out, fmt.Errorf("Transformer - Generate - t.processor.Label: %w: %w", errs.ErrAIProvider, err)
		}
	}

	ref, err := t.images.Save(ctx, repo.ScopeGenerated, bytesReader(data), "generated"+extensionFor(mimeType))
	if err != nil {
		return out, fmt.Errorf("Transformer - Generate - t.images.Save: %w: %w", errs.ErrAIProvider, err)
	}

	out.GeneratedImageRef = ref
	out.ExpectedChangePercent = percent

	return out, nil
}

func (t *Transformer) readOriginal(ctx context.Context, ref string) ([]byte, error) {
	rc, _, err := t.images.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, t.cfg.MaxInputBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > t.cfg.MaxInputBytes {
		return nil, fmt.Errorf("original image exceeds %d bytes", t.cfg.MaxInputBytes)
	}

	return data, nil
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
