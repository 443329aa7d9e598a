package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	commonhttp "github.com/AlibekovAA/places-directory/internal/common/http"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/user/domain"
	"github.com/AlibekovAA/places-directory/internal/user/service"
)

type ImageUploader interface {
	SaveFromRequest(r *http.Request, field string) (string, error)
	Discard(ctx context.Context, ref string)
}

type userResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Image  string   `json:"image"`
	Places []string `json:"places"`
}

type usersResponse struct {
	Users []userResponse `json:"users"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type Handler struct {
	users   *service.UserService
	images  ImageUploader
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(users *service.UserService, images ImageUploader, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		users:   users,
		images:  images,
		timeout: timeout,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := commonhttp.WithTimeout(r, h.timeout)
	defer cancel()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	resp := usersResponse{Users: make([]userResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

// signup stores the uploaded image first and discards it if the
// signup itself fails.
func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.users.Signup(ctx, service.SignupInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Image:    image,
	})
	if err != nil {
		h.images.Discard(r.Context(), image)
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, authResponse{
		UserID: string(result.UserID),
		Email:  result.Email,
		Token:  result.Token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	ctx, cancel := commonhttp.WithTimeout(r, h.timeout)
	defer cancel()

	result, err := h.users.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, authResponse{
		UserID: string(result.UserID),
		Email:  result.Email,
		Token:  result.Token,
	})
}

func toUserResponse(u domain.Summary) userResponse {
	places := u.Places
	if places == nil {
		places = []string{}
	}
	return userResponse{
		ID:     string(u.ID),
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.Image,
		Places: places,
	}
}
