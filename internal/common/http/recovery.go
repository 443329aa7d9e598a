package http

import (
	"net/http"
	"runtime/debug"

	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/observability/metrics"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					metrics.PanicsRecoveredTotal.Inc()
					log.WithFields(r.Context(), logger.Fields{
						"path":   r.URL.Path,
						"action": "panic_recovered",
					}).Errorf("panic recovered: %v\n%s", err, debug.Stack())
					WriteError(w, http.StatusInternalServerError, commonerrors.ErrInternalError.Message())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
