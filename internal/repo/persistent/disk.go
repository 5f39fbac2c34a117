package persistent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
)

// DiskImageStore keeps images under <root>/uploads/<scope>/.
type DiskImageStore struct {
	root string
}

func NewDiskImageStore(root string) (*DiskImageStore, error) {
	for _, scope := range []repo.ImageScope{repo.ScopeOriginal, repo.ScopeGenerated} {
		dir := filepath.Join(root, "uploads", string(scope))
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("DiskImageStore - New - os.MkdirAll %s: %w", dir, err)
		}
	}

	return &DiskImageStore{root: root}, nil
}

// Save writes into a temp file, fsyncs and renames it into place, so a
// reader never sees a partially written image.
func (s *DiskImageStore) Save(_ context.Context, scope repo.ImageScope, data io.Reader, originalName string) (string, error) {
	if data == nil {
		return "", fmt.Errorf("DiskImageStore - Save: no data: %w", errs.ErrValidation)
	}

	ref := newImageRef(scope, originalName)
	fullPath, err := s.fullPath(ref)
	if err != nil {
		return "", fmt.Errorf("DiskImageStore - Save - s.fullPath: %w", err)
	}
	tmpPath := fullPath + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("DiskImageStore - Save - os.OpenFile: %w", err)
	}

	size, err := io.Copy(f, data)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("DiskImageStore - Save - io.Copy: %w", err)
	}

	if size == 0 {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("DiskImageStore - Save: empty file: %w", errs.ErrValidation)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("DiskImageStore - Save - f.Sync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("DiskImageStore - Save - f.Close: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("DiskImageStore - Save - os.Rename: %w", err)
	}

	return ref, nil
}

func (s *DiskImageStore) Open(_ context.Context, ref string) (io.ReadCloser, string, error) {
	fullPath, err := s.fullPath(ref)
	if err != nil {
		return nil, "", fmt.Errorf("DiskImageStore - Open - s.fullPath: %w", err)
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("DiskImageStore - Open: %w", errs.ErrRecordNotFound)
		}
		return nil, "", fmt.Errorf("DiskImageStore - Open - os.Open: %w", err)
	}

	return f, contentTypeByRef(ref), nil
}

// Delete is a no-op for an already missing file.
func (s *DiskImageStore) Delete(_ context.Context, ref string) error {
	fullPath, err := s.fullPath(ref)
	if err != nil {
		return fmt.Errorf("DiskImageStore - Delete - s.fullPath: %w", err)
	}

	err = os.Remove(fullPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("DiskImageStore - Delete - os.Remove: %w", err)
	}

	return nil
}

func (s *DiskImageStore) Root() string {
	return s.root
}

func (s *DiskImageStore) fullPath(ref string) (string, error) {
	key, err := parseImageRef(ref)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func bytesReader(b []byte) io.ReadSeeker {
	return bytes.NewReader(b)
}
