// Package media uploads catalog images to the storage bucket and hands back
// public URLs. The bucket is an opaque collaborator; no retry wraps it.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"bazaar/internal/infra"
	"bazaar/internal/types"
)

var ErrNoBucket = errors.New("no storage bucket configured")

type Service struct {
	fb *infra.Firebase
}

func NewService(fb *infra.Firebase) *Service {
	return &Service{fb: fb}
}

// Upload streams one image into the bucket and returns its public URL.
func (s *Service) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	bucket := s.fb.Bucket()
	if bucket == nil {
		return "", ErrNoBucket
	}

	object := fmt.Sprintf("images/%s%s", types.NewID(), path.Ext(filename))
	w := bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("writing %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing %s: %w", object, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.fb.BucketName(), object), nil
}
