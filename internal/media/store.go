// Package media stores uploaded images and serves them back by name.
package media

import (
	"context"
	"io"
	"path"
	"strings"

	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
)

var (
	ErrImageRequired = commonerrors.NewValidationError(
		"IMAGE_REQUIRED",
		"No image provided.",
	)

	ErrInvalidMimeType = commonerrors.NewValidationError(
		"INVALID_MIME_TYPE",
		"Invalid mime type!",
	)

	ErrImageTooLarge = commonerrors.NewValidationError(
		"IMAGE_TOO_LARGE",
		"Image is larger than 10 MB.",
	)

	ErrImageNotFound = commonerrors.NewNotFoundError(
		"IMAGE_NOT_FOUND",
		"Could not find this image.",
	)

	ErrImageStore = commonerrors.NewStoreError(
		"IMAGE_STORE_FAILED",
		"Storing the image failed, please try again later.",
	)
)

// Store is a flat namespace of image objects addressed by file name.
type Store interface {
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) error
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, name string) error
}

// allowedTypes maps accepted content types to the extension used when
// naming stored objects.
var allowedTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
}

var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// ValidName reports whether name is a bare object name with an image
// extension. It rejects anything that could address outside the store.
func ValidName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return false
	}
	_, ok := extensionTypes[strings.ToLower(path.Ext(name))]
	return ok
}

func contentTypeFor(name string) string {
	if ct, ok := extensionTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
