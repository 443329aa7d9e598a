package media

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	commonhttp "github.com/AlibekovAA/places-directory/internal/common/http"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
)

type Handler struct {
	store Store
	log   *logger.Logger
}

func NewHandler(store Store, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/uploads/images/{name}", h.serveImage)
}

func (h *Handler) serveImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !ValidName(name) {
		commonhttp.HandleError(w, r, ErrImageNotFound, h.log)
		return
	}

	body, contentType, err := h.store.Open(r.Context(), name)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"image":  name,
			"action": "image_serve_failed",
		}).Warnf("image copy failed: %v", err)
	}
}
