// Package storage persists problem images behind a small adapter so the
// bucket-backed and local-filesystem variants stay interchangeable.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for image uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// allowedMIMETypes maps accepted image content types to file extensions.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore stores and deletes problem images. Upload returns an opaque
// reference persisted on the Problem record; ResolveURL turns it into a
// browser-servable URL at render time. Every call is a fallible remote
// operation; callers surface errors and never retry.
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (ref string, err error)
	Delete(ctx context.Context, ref string) error
	ResolveURL(ref string) string
}

// extensionFor validates the content type against the image allowlist.
func extensionFor(contentType string) (string, error) {
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", ErrUnsupportedFileType
	}
	return ext, nil
}

// AllowedTypes lists the accepted image content types, for error messages.
func AllowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}

// newObjectName generates a collision-free object name for an upload.
func newObjectName(ext string) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "") + ext
}
