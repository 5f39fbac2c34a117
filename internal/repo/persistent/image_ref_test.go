package persistent

import (
	"errors"
	"strings"
	"testing"

	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
)

func TestNewImageRef(t *testing.T) {
	tests := []struct {
		name     string
		scope    repo.ImageScope
		original string
		prefix   string
		ext      string
	}{
		{"keeps extension lower-cased", repo.ScopeOriginal, "Me.PNG", "/uploads/original/", ".png"},
		{"generated scope", repo.ScopeGenerated, "x.jpg", "/uploads/generated/", ".jpg"},
		{"no extension", repo.ScopeOriginal, "photo", "/uploads/original/", ""},
		{"path components dropped", repo.ScopeOriginal, "../../etc/passwd.jpeg", "/uploads/original/", ".jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := newImageRef(tt.scope, tt.original)
			if !strings.HasPrefix(ref, tt.prefix) {
				t.Fatalf("ref %q, want prefix %q", ref, tt.prefix)
			}
			if !strings.HasSuffix(ref, tt.ext) {
				t.Fatalf("ref %q, want suffix %q", ref, tt.ext)
			}
			if _, err := parseImageRef(ref); err != nil {
				t.Fatalf("generated ref does not parse: %v", err)
			}
		})
	}
}

func TestNewImageRefIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ref := newImageRef(repo.ScopeOriginal, "a.jpg")
		if _, ok := seen[ref]; ok {
			t.Fatalf("duplicate ref %q", ref)
		}
		seen[ref] = struct{}{}
	}
}

func TestParseImageRef(t *testing.T) {
	tests := []struct {
		ref     string
		wantKey string
		wantErr bool
	}{
		{ref: "/uploads/original/abc.png", wantKey: "uploads/original/abc.png"},
		{ref: "/uploads/generated/abc", wantKey: "uploads/generated/abc"},
		{ref: "/etc/passwd", wantErr: true},
		{ref: "/uploads/original/../../etc/passwd", wantErr: true},
		{ref: "/uploads/other/abc.png", wantErr: true},
		{ref: "/uploads/original/", wantErr: true},
		{ref: "/uploads/original/a/b.png", wantErr: true},
		{ref: "", wantErr: true},
	}

	for _, tt := range tests {
		key, err := parseImageRef(tt.ref)
		if tt.wantErr {
			if !errors.Is(err, errs.ErrValidation) {
				t.Errorf("parseImageRef(%q) err = %v, want ErrValidation", tt.ref, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseImageRef(%q) unexpected err: %v", tt.ref, err)
			continue
		}
		if key != tt.wantKey {
			t.Errorf("parseImageRef(%q) = %q, want %q", tt.ref, key, tt.wantKey)
		}
	}
}

func TestContentTypeByRef(t *testing.T) {
	if got := contentTypeByRef("/uploads/original/a.png"); got != "image/png" {
		t.Errorf("png content type = %q", got)
	}
	if got := contentTypeByRef("/uploads/original/a"); got != "application/octet-stream" {
		t.Errorf("no extension content type = %q", got)
	}
}
