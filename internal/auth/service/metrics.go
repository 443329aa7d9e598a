package service

import (
	"github.com/AlibekovAA/places-directory/internal/observability/metrics"
)

func incrementTokensIssued() {
	metrics.TokensIssued.Inc()
}
