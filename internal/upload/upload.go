// Package upload sends local image files to presigned object-storage slots.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/domain"
)

// Presigner reserves an upload slot for a file of the given type.
type Presigner func(ctx context.Context, ext, contentType string) (*domain.PresignedUpload, error)

// Putter stores bytes at a presigned URL.
type Putter interface {
	Upload(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) error
}

// File validates the image at path, reserves a slot via presign and PUTs
// the file there. It returns the object key to attach to a post or profile.
func File(ctx context.Context, v *validate.Validator, p Putter, presign Presigner, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("upload.File: %w", err)
	}
	defer f.Close() //nolint:errcheck // best-effort close

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("upload.File: stat: %w", err)
	}
	ext := validate.ImageExtension(path)
	if err := v.Image(validate.ImageForm{Extension: ext, Size: info.Size()}); err != nil {
		return "", err
	}

	contentType := validate.ContentType(ext)
	slot, err := presign(ctx, ext, contentType)
	if err != nil {
		return "", fmt.Errorf("upload.File: presign: %w", err)
	}
	if err := p.Upload(ctx, slot.UploadURL, contentType, f, info.Size()); err != nil {
		return "", fmt.Errorf("upload.File: %w", err)
	}
	return slot.Key, nil
}

// Files uploads every path in order. On failure the keys already uploaded
// are passed to discard so they do not linger unattached.
func Files(ctx context.Context, v *validate.Validator, p Putter, presign Presigner, discard func(ctx context.Context, key string) error, paths []string) ([]string, error) {
	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		key, err := File(ctx, v, p, presign, path)
		if err != nil {
			if discard != nil {
				for _, k := range keys {
					_ = discard(ctx, k)
				}
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
