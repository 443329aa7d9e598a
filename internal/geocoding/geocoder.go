// Package geocoding resolves free-text addresses to coordinates through an
// external provider. Each call is a single request with no retry or cache.
package geocoding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/observability/metrics"
)

var ErrGeocode = commonerrors.NewGeocodeError(
	"GEOCODE_FAILED",
	"Could not find location for the specified address.",
)

type Coordinates struct {
	Lat float64
	Lng float64
}

type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

const (
	ProviderNominatim = "nominatim"
	ProviderGoogle    = "google"
)

type Config struct {
	Provider  string
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

type lookupFunc func(ctx context.Context, client *resty.Client, address string) (Coordinates, error)

// Client is a Geocoder backed by one provider's HTTP API.
type Client struct {
	provider string
	client   *resty.Client
	lookup   lookupFunc
	log      *logger.Logger
}

func New(cfg Config, log *logger.Logger) (*Client, error) {
	var lookup lookupFunc
	switch cfg.Provider {
	case ProviderNominatim, "":
		cfg.Provider = ProviderNominatim
		lookup = lookupNominatim
	case ProviderGoogle:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("google geocoder requires an api key")
		}
		lookup = googleLookup(cfg.APIKey)
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q", cfg.Provider)
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{
		provider: cfg.Provider,
		client:   client,
		lookup:   lookup,
		log:      log,
	}, nil
}

func (c *Client) Resolve(ctx context.Context, address string) (Coordinates, error) {
	start := time.Now()
	coords, err := c.lookup(ctx, c.client, address)
	metrics.GeocodeDurationSeconds.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues(c.provider, "failed").Inc()
		c.log.WithFields(ctx, logger.Fields{
			"provider": c.provider,
			"action":   "geocode_failed",
		}).Warnf("geocoding failed: %v", err)
		return Coordinates{}, ErrGeocode.WithCause(err)
	}

	metrics.GeocodeRequestsTotal.WithLabelValues(c.provider, "resolved").Inc()
	return coords, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("provider returned status %d", resp.StatusCode())
	}
	return nil
}
