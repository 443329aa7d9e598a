package http

import (
	"net/http"

	"github.com/AlibekovAA/places-directory/internal/common/constants"
	"github.com/AlibekovAA/places-directory/internal/common/httpmetrics"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
)

func BuildBaseHandler(appName string, log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return CORSMiddleware(SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler))))))
}
