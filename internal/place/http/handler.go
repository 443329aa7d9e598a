package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
	commonhttp "github.com/AlibekovAA/places-directory/internal/common/http"
	"github.com/AlibekovAA/places-directory/internal/common/jwtverify"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/place/domain"
	"github.com/AlibekovAA/places-directory/internal/place/dto"
	"github.com/AlibekovAA/places-directory/internal/place/service"
	userdomain "github.com/AlibekovAA/places-directory/internal/user/domain"
)

type ImageUploader interface {
	SaveFromRequest(r *http.Request, field string) (string, error)
	Discard(ctx context.Context, ref string)
}

type placeResponse struct {
	Place dto.Place `json:"place"`
}

type placesResponse struct {
	Places []dto.Place `json:"places"`
}

type updateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Deps struct {
	Places   *service.PlaceService
	Images   ImageUploader
	Verifier jwtverify.Verifier
	Feed     http.Handler
	Timeout  time.Duration
	Log      *logger.Logger
}

type Handler struct {
	places   *service.PlaceService
	images   ImageUploader
	verifier jwtverify.Verifier
	feed     http.Handler
	timeout  time.Duration
	log      *logger.Logger
}

func NewHandler(deps Deps) *Handler {
	return &Handler{
		places:   deps.Places,
		images:   deps.Images,
		verifier: deps.Verifier,
		feed:     deps.Feed,
		timeout:  deps.Timeout,
		log:      deps.Log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/places", func(r chi.Router) {
		if h.feed != nil {
			r.Get("/feed", h.feed.ServeHTTP)
		}
		r.Get("/user/{uid}", h.listByUser)
		r.Get("/{pid}", h.get)

		r.Group(func(r chi.Router) {
			r.Use(jwtverify.Middleware(h.verifier, h.log))
			r.Post("/", h.create)
			r.Patch("/{pid}", h.update)
			r.Delete("/{pid}", h.delete)
		})
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := commonhttp.WithTimeout(r, h.timeout)
	defer cancel()

	place, err := h.places.GetByID(ctx, domain.ID(chi.URLParam(r, "pid")))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, placeResponse{Place: dto.FromDomain(place)})
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := commonhttp.WithTimeout(r, h.timeout)
	defer cancel()

	places, err := h.places.ListByUser(ctx, userdomain.ID(chi.URLParam(r, "uid")))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, placesResponse{Places: dto.FromDomainList(places)})
}

// create stores the uploaded image first and discards it if the place
// cannot be created.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	if err := commonhttp.ParseMultipart(r); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	defer commonhttp.CleanupMultipart(r)

	image, err := h.images.SaveFromRequest(r, "image")
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	ctx, cancel := commonhttp.WithTimeout(r, h.timeout)
	defer cancel()

	place, err := h.places.Create(ctx, service.CreateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
		CreatorID:   callerID,
		Image:       image,
	})
	if err != nil {
		h.images.Discard(r.Context(), image)
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, placeResponse{Place: dto.FromDomain(place)})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	ctx, cancel := commonhttp.WithTimeout(r, h.timeout)
	defer cancel()

	place, err := h.places.Update(ctx, service.UpdateInput{
		PlaceID:     domain.ID(chi.URLParam(r, "pid")),
		CallerID:    callerID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, placeResponse{Place: dto.FromDomain(place)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := commonhttp.WithTimeout(r, h.timeout)
	defer cancel()

	err := h.places.Delete(ctx, service.DeleteInput{
		PlaceID:  domain.ID(chi.URLParam(r, "pid")),
		CallerID: callerID,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, commonhttp.MessageResponse{Message: "Deleted place."})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (userdomain.ID, bool) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok || claims.UserID == "" {
		commonhttp.HandleError(w, r, commonerrors.ErrAuthenticationFailed, h.log)
		return "", false
	}
	return userdomain.ID(claims.UserID), true
}
