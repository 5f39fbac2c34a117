package persistent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
)

func newTestDiskStore(t *testing.T) *DiskImageStore {
	t.Helper()

	s, err := NewDiskImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskImageStore: %v", err)
	}

	return s
}

func TestDiskImageStoreSaveOpenDelete(t *testing.T) {
	s := newTestDiskStore(t)
	ctx := context.Background()
	data := []byte("\x89PNG fake image bytes")

	ref, err := s.Save(ctx, repo.ScopeOriginal, bytes.NewReader(data), "me.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/original/") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected ref %q", ref)
	}

	rc, contentType, err := s.Open(ctx, ref)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("content mismatch: %q", got)
	}
	if contentType != "image/png" {
		t.Fatalf("content type = %q", contentType)
	}

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Join(s.Root(), "uploads", "original"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file, got %d", len(entries))
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := s.Open(ctx, ref); !errors.Is(err, errs.ErrRecordNotFound) {
		t.Fatalf("Open after delete err = %v, want ErrRecordNotFound", err)
	}
	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestDiskImageStoreRejectsEmptyData(t *testing.T) {
	s := newTestDiskStore(t)

	_, err := s.Save(context.Background(), repo.ScopeOriginal, bytes.NewReader(nil), "empty.jpg")
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	_, err = s.Save(context.Background(), repo.ScopeOriginal, nil, "nil.jpg")
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("nil reader err = %v, want ErrValidation", err)
	}

	entries, err := os.ReadDir(filepath.Join(s.Root(), "uploads", "original"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
}

func TestDiskImageStoreRejectsForeignRefs(t *testing.T) {
	s := newTestDiskStore(t)

	for _, ref := range []string{"/etc/passwd", "/uploads/original/../../x", "/uploads/nope/a.png"} {
		if _, _, err := s.Open(context.Background(), ref); !errors.Is(err, errs.ErrValidation) {
			t.Errorf("Open(%q) err = %v, want ErrValidation", ref, err)
		}
	}
}

func TestDiskImageStoreConcurrentSaves(t *testing.T) {
	s := newTestDiskStore(t)

	const n = 16
	refs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref, err := s.Save(context.Background(), repo.ScopeGenerated, strings.NewReader("img"), "same.jpg")
			if err != nil {
				t.Errorf("Save: %v", err)
				return
			}
			refs[i] = ref
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, ref := range refs {
		if seen[ref] {
			t.Fatalf("duplicate ref %q", ref)
		}
		seen[ref] = true
	}
}
