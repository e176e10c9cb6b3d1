package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/studyinside/quizboard-backend/internal/config"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	return NewLocalStore(&config.Config{
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1024,
	})
}

func TestLocalStoreUploadAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	data := strings.NewReader("not really a png")
	ref, err := s.Upload(ctx, data, 16, "image/png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("ref = %q, want /uploads/<name>.png", ref)
	}

	name := ref[strings.LastIndex(ref, "/")+1:]
	if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.dir, name)); !os.IsNotExist(err) {
		t.Fatal("file still present after Delete")
	}

	// Deleting an already-gone ref is not an error (best-effort cleanup).
	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete of missing file: %v", err)
	}
}

func TestLocalStoreRejectsBadUploads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Upload(ctx, strings.NewReader("x"), 1, "application/pdf"); !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("content type: err = %v, want ErrUnsupportedFileType", err)
	}
	if _, err := s.Upload(ctx, strings.NewReader("x"), 4096, "image/png"); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("size: err = %v, want ErrFileTooLarge", err)
	}
}

func TestResolveURLIsIdentity(t *testing.T) {
	s := newTestStore(t)
	if got := s.ResolveURL("/uploads/a.png"); got != "/uploads/a.png" {
		t.Errorf("ResolveURL = %q", got)
	}
}
