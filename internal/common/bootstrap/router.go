package bootstrap

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonhttp "github.com/AlibekovAA/places-directory/internal/common/http"
	"github.com/AlibekovAA/places-directory/internal/media"
	placehttp "github.com/AlibekovAA/places-directory/internal/place/http"
	userhttp "github.com/AlibekovAA/places-directory/internal/user/http"
)

// Handler returns the full HTTP surface wrapped in the shared middleware
// chain.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.NotFound(commonhttp.NotFoundHandler(a.Log))
	r.MethodNotAllowed(commonhttp.MethodNotAllowedHandler(a.Log))

	r.Get("/health", commonhttp.HealthHandler(a.Log))
	r.Handle("/metrics", promhttp.Handler())

	timeout := a.Config.RequestTimeout

	userhttp.NewHandler(a.UserService, a.Uploader, timeout, a.Log).RegisterRoutes(r)
	placehttp.NewHandler(placehttp.Deps{
		Places:   a.PlaceService,
		Images:   a.Uploader,
		Verifier: a.Auth,
		Feed:     http.HandlerFunc(a.Hub.ServeWS),
		Timeout:  timeout,
		Log:      a.Log,
	}).RegisterRoutes(r)
	media.NewHandler(a.Images, a.Log).RegisterRoutes(r)

	return commonhttp.BuildBaseHandler("api", a.Log, r)
}
