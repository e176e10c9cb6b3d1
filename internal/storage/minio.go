package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/studyinside/quizboard-backend/internal/config"
)

// MinioStore keeps images in an S3-compatible bucket and hands out public
// URLs as image references, so the stored ref is directly renderable.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	maxBytes  int64
}

// NewMinioStore creates a bucket-backed image store from config.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	if cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required in bucket storage mode")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  cfg.MaxUploadBytes,
	}, nil
}

// Upload streams the image into the bucket under a generated object name
// and returns its public URL as the reference.
func (s *MinioStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	ext, err := extensionFor(contentType)
	if err != nil {
		return "", err
	}
	if size > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, size, s.maxBytes)
	}

	name := newObjectName(ext)
	_, err = s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio put object: %w", err)
	}
	return s.publicURL + "/" + name, nil
}

// Delete removes the object an image reference points at. The object name
// is the last path segment of the stored URL.
func (s *MinioStore) Delete(ctx context.Context, ref string) error {
	name := objectNameFromRef(ref)
	if name == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove object: %w", err)
	}
	return nil
}

// ResolveURL is the identity for bucket refs: they are already public URLs.
func (s *MinioStore) ResolveURL(ref string) string { return ref }

func objectNameFromRef(ref string) string {
	if ref == "" {
		return ""
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
