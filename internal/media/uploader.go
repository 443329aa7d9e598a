package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/AlibekovAA/places-directory/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/places-directory/internal/common/crypto"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/observability/metrics"
)

// Uploader validates multipart image uploads and stores them under a
// fresh random name. References it hands out look like
// "uploads/images/<uuid>.<ext>".
type Uploader struct {
	store       Store
	backend     string
	idGenerator commoncrypto.IDGenerator
	maxBytes    int64
	log         *logger.Logger
}

func NewUploader(store Store, backend string, idGenerator commoncrypto.IDGenerator, log *logger.Logger) *Uploader {
	return &Uploader{
		store:       store,
		backend:     backend,
		idGenerator: idGenerator,
		maxBytes:    constants.MaxImageSizeBytes,
		log:         log,
	}
}

func (u *Uploader) SaveFromRequest(r *http.Request, field string) (string, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			metrics.ImagesRejectedTotal.WithLabelValues("missing").Inc()
			return "", ErrImageRequired
		}
		return "", ErrImageRequired.WithCause(err)
	}
	defer file.Close()

	return u.Save(r.Context(), file)
}

func (u *Uploader) Save(ctx context.Context, file multipart.File) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, u.maxBytes+1))
	if err != nil {
		return "", ErrImageStore.WithCause(err)
	}
	if int64(len(data)) > u.maxBytes {
		metrics.ImagesRejectedTotal.WithLabelValues("too_large").Inc()
		return "", ErrImageTooLarge
	}

	detected := mimetype.Detect(data)
	contentType := strings.SplitN(detected.String(), ";", 2)[0]
	ext, ok := allowedTypes[contentType]
	if !ok {
		metrics.ImagesRejectedTotal.WithLabelValues("mime_type").Inc()
		return "", ErrInvalidMimeType.WithCause(errors.New(detected.String()))
	}

	id, err := u.idGenerator.NewID()
	if err != nil {
		return "", ErrImageStore.WithCause(err)
	}
	name := id + ext

	if err := u.store.Save(ctx, name, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		u.log.WithFields(ctx, logger.Fields{
			"image":  name,
			"action": "image_save_failed",
		}).Errorf("image save failed: %v", err)
		return "", ErrImageStore.WithCause(err)
	}

	metrics.ImagesStoredTotal.WithLabelValues(u.backend).Inc()
	return constants.ImageRefPrefix + name, nil
}

// Remove deletes the object behind a reference produced by Save.
func (u *Uploader) Remove(ctx context.Context, ref string) error {
	name := strings.TrimPrefix(ref, constants.ImageRefPrefix)
	if name == ref || !ValidName(name) {
		metrics.ImagesDeletedTotal.WithLabelValues("invalid_ref").Inc()
		return ErrImageNotFound
	}

	if err := u.store.Delete(ctx, name); err != nil {
		metrics.ImagesDeletedTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.ImagesDeletedTotal.WithLabelValues("deleted").Inc()
	return nil
}

// Discard removes an image uploaded by a request that then failed.
func (u *Uploader) Discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := u.Remove(context.WithoutCancel(ctx), ref); err != nil {
		u.log.WithFields(ctx, logger.Fields{
			"image":  ref,
			"action": "image_discard_failed",
		}).Warnf("failed to discard uploaded image: %v", err)
	}
}
