package constants

import "time"

const (
	PasswordMinLength    = 6
	PasswordMaxLength    = 72
	DescriptionMinLength = 5
	JWTSecretMinLength   = 32

	MaxImageSizeBytes     = 10 * 1000 * 1000
	MultipartMemoryBytes  = 1 << 20
	DefaultMaxRequestSize = MaxImageSizeBytes + 1<<20

	ImagesRoutePrefix = "/uploads/images/"
	ImageRefPrefix    = "uploads/images/"
	DefaultUploadDir  = "uploads/images"
	S3ImageKeyPrefix  = "images/"

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "5000"
	DefaultTokenTTL       = 1 * time.Hour
	DefaultBcryptCost     = 12
	DefaultRequestTimeout = 10 * time.Second
	DefaultGeocodeTimeout = 10 * time.Second

	NominatimBaseURL  = "https://nominatim.openstreetmap.org"
	GoogleGeocodeURL  = "https://maps.googleapis.com"
	GeocoderUserAgent = "places-directory/1.0"

	FeedWriteWait       = 10 * time.Second
	FeedPongWait        = 60 * time.Second
	FeedPingPeriod      = (FeedPongWait * 9) / 10
	FeedMaxMessageSize  = 512
	FeedSendBufSize     = 32
	FeedBroadcastQueue  = 256
	FeedReadBufferSize  = 1024
	FeedWriteBufferSize = 1024

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
