package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/AlibekovAA/places-directory/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	MediaBackendDisk = "disk"
	MediaBackendS3   = "s3"

	GeocoderNominatim = "nominatim"
	GeocoderGoogle    = "google"
)

type GeocoderConfig struct {
	Provider string        `env:"GEOCODER_PROVIDER" envDefault:"nominatim" validate:"oneof=nominatim google"`
	BaseURL  string        `env:"GEOCODER_BASE_URL" validate:"omitempty,url"`
	APIKey   string        `env:"GEOCODER_API_KEY" validate:"required_if=Provider google"`
	Timeout  time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

type MediaConfig struct {
	Backend     string `env:"MEDIA_BACKEND" envDefault:"disk" validate:"oneof=disk s3"`
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"uploads/images" validate:"required_if=Backend disk"`
	S3Bucket    string `env:"S3_BUCKET" validate:"required_if=Backend s3"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT" validate:"omitempty,url"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

type APIConfig struct {
	HTTPPort       string        `env:"HTTP_PORT" envDefault:"5000" validate:"required,numeric"`
	StoreDriver    string        `env:"STORE_DRIVER" envDefault:"postgres" validate:"oneof=postgres memory"`
	DatabaseURL    string        `env:"DATABASE_URL" validate:"required_if=StoreDriver postgres"`
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"JWT_TTL" envDefault:"1h" validate:"gt=0"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"12" validate:"min=4,max=31"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	LogDir         string        `env:"LOG_DIR"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	Geocoder       GeocoderConfig
	Media          MediaConfig
}

// LoadAPIConfig reads an optional .env file, then the process environment.
// Variables already present in the environment win over the file.
func LoadAPIConfig() (APIConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return APIConfig{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		return APIConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.JWTSecret == "" {
		return APIConfig{}, fmt.Errorf("%w: JWT_SECRET", ErrMissingRequiredEnv)
	}

	if err := validateJWTSecret(cfg.JWTSecret); err != nil {
		return APIConfig{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return APIConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = defaultGeocoderURL(cfg.Geocoder.Provider)
	}

	return cfg, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func defaultGeocoderURL(provider string) string {
	if provider == GeocoderGoogle {
		return constants.GoogleGeocodeURL
	}
	return constants.NominatimBaseURL
}
