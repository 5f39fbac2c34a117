package validate

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
)

const (
	MaxFileSize int64 = 10 * 1024 * 1024

	// DefaultDurationMonths is used when the form omits duration_months.
	DefaultDurationMonths = 12
	MaxDurationMonths     = 120

	MaxWeightKg = 500.0
)

var (
	AllowedContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}

	AllowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}
)

// ImageFile reports whether the upload looks like a supported image.
func ImageFile(fileName, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	return AllowedExtensions[ext] && (ct == "" || ct == "application/octet-stream" || AllowedContentTypes[ct])
}

func GoalType(raw string) (entity.GoalType, error) {
	g := entity.GoalType(strings.ToLower(strings.TrimSpace(raw)))
	if g == "" {
		return "", fmt.Errorf("goal_type is required")
	}
	if !g.Valid() {
		return "", fmt.Errorf("goal_type must be one of cut, bulk, recomposition")
	}

	return g, nil
}

func DurationMonths(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultDurationMonths, nil
	}

	months, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("duration_months must be a number")
	}
	if months < 1 || months > MaxDurationMonths {
		return 0, fmt.Errorf("duration_months must be between 1 and %d", MaxDurationMonths)
	}

	return months, nil
}

// StartWeightKg returns nil for an empty field.
func StartWeightKg(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	w, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return nil, fmt.Errorf("start_weight_kg must be a number")
	}
	if w <= 0 || w > MaxWeightKg {
		return nil, fmt.Errorf("start_weight_kg must be between 0 and %.0f", MaxWeightKg)
	}

	return &w, nil
}
