package persistent

import (
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/google/uuid"
)

const uploadsPrefix = "/uploads/"

// newImageRef builds /uploads/<scope>/<uuid><ext>, keeping the lower-cased
// extension of the uploaded file name.
func newImageRef(scope repo.ImageScope, originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}

	return uploadsPrefix + string(scope) + "/" + uuid.NewString() + ext
}

// parseImageRef validates ref and returns the slash separated key without the
// leading slash (uploads/<scope>/<name>).
func parseImageRef(ref string) (string, error) {
	if !strings.HasPrefix(ref, uploadsPrefix) {
		return "", fmt.Errorf("image ref %q outside uploads: %w", ref, errs.ErrValidation)
	}

	cleaned := path.Clean(ref)
	if cleaned != ref {
		return "", fmt.Errorf("image ref %q is not canonical: %w", ref, errs.ErrValidation)
	}

	parts := strings.Split(strings.TrimPrefix(cleaned, uploadsPrefix), "/")
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("image ref %q has wrong shape: %w", ref, errs.ErrValidation)
	}

	switch repo.ImageScope(parts[0]) {
	case repo.ScopeOriginal, repo.ScopeGenerated:
	default:
		return "", fmt.Errorf("image ref %q has unknown scope: %w", ref, errs.ErrValidation)
	}

	return strings.TrimPrefix(cleaned, "/"), nil
}

func contentTypeByRef(ref string) string {
	ct := mime.TypeByExtension(path.Ext(ref))
	if ct == "" {
		return "application/octet-stream"
	}

	return ct
}
