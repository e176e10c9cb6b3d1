package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/studyinside/quizboard-backend/internal/config"
)

// LocalStore keeps images in a local uploads directory served statically
// by the router. References are the relative /uploads/<name> paths.
type LocalStore struct {
	dir      string
	maxBytes int64
}

// NewLocalStore creates a filesystem-backed image store from config.
func NewLocalStore(cfg *config.Config) *LocalStore {
	return &LocalStore{dir: cfg.UploadDir, maxBytes: cfg.MaxUploadBytes}
}

// Upload writes the image under a generated filename and returns its
// relative URL path as the reference.
func (s *LocalStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	ext, err := extensionFor(contentType)
	if err != nil {
		return "", err
	}
	if size > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, size, s.maxBytes)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := newObjectName(ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return "/uploads/" + name, nil
}

// Delete removes the file an image reference points at.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	name := objectNameFromRef(ref)
	if name == "" || strings.Contains(name, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// ResolveURL is the identity for local refs: the router serves /uploads.
func (s *LocalStore) ResolveURL(ref string) string { return ref }
