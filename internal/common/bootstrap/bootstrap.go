package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	authservice "github.com/AlibekovAA/places-directory/internal/auth/service"
	"github.com/AlibekovAA/places-directory/internal/common/clock"
	"github.com/AlibekovAA/places-directory/internal/common/config"
	"github.com/AlibekovAA/places-directory/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/places-directory/internal/common/crypto"
	"github.com/AlibekovAA/places-directory/internal/common/db"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/geocoding"
	"github.com/AlibekovAA/places-directory/internal/media"
	"github.com/AlibekovAA/places-directory/internal/place/feed"
	placerepo "github.com/AlibekovAA/places-directory/internal/place/repository"
	placeservice "github.com/AlibekovAA/places-directory/internal/place/service"
	"github.com/AlibekovAA/places-directory/internal/store/memory"
	userrepo "github.com/AlibekovAA/places-directory/internal/user/repository"
	userservice "github.com/AlibekovAA/places-directory/internal/user/service"
)

type App struct {
	Config       config.APIConfig
	Log          *logger.Logger
	Pool         *pgxpool.Pool
	UserRepo     userrepo.Repository
	PlaceRepo    placerepo.Repository
	TxManager    placerepo.TxManager
	Images       media.Store
	Uploader     *media.Uploader
	Hub          *feed.Hub
	Auth         *authservice.AuthService
	UserService  *userservice.UserService
	PlaceService *placeservice.PlaceService
}

// NewAPIApp loads configuration from the environment and wires every
// dependency of the API process.
func NewAPIApp(ctx context.Context) (*App, error) {
	log, err := initializeLogger("api")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return nil, err
	}
	log.SetLevel(cfg.LogLevel)

	return Build(ctx, cfg, log)
}

func Build(ctx context.Context, cfg config.APIConfig, log *logger.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	if err := app.initializeStore(ctx); err != nil {
		return nil, err
	}

	if err := app.initializeImages(ctx); err != nil {
		app.Close()
		return nil, err
	}

	geocoder, err := geocoding.New(geocoding.Config{
		Provider:  cfg.Geocoder.Provider,
		BaseURL:   cfg.Geocoder.BaseURL,
		APIKey:    cfg.Geocoder.APIKey,
		UserAgent: constants.GeocoderUserAgent,
		Timeout:   cfg.Geocoder.Timeout,
	}, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize geocoder: %w", err)
	}

	idGenerator := commoncrypto.NewUUIDGenerator()
	realClock := clock.NewRealClock()

	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, idGenerator, cfg.TokenTTL, realClock)
	app.Auth = authservice.NewAuthService(issuer, commoncrypto.NewBcryptHasher(cfg.BcryptCost), log)
	app.Uploader = media.NewUploader(app.Images, cfg.Media.Backend, idGenerator, log)
	app.Hub = feed.NewHub(log)

	app.UserService = userservice.NewUserService(userservice.Deps{
		Repo:        app.UserRepo,
		Auth:        app.Auth,
		IDGenerator: idGenerator,
		Clock:       realClock,
		Log:         log,
	})

	app.PlaceService = placeservice.NewPlaceService(placeservice.Deps{
		Repo:        app.PlaceRepo,
		TxManager:   app.TxManager,
		Users:       app.UserRepo,
		Geocoder:    geocoder,
		Images:      app.Uploader,
		Events:      app.Hub,
		IDGenerator: idGenerator,
		Clock:       realClock,
		Log:         log,
	})

	return app, nil
}

func (a *App) initializeStore(ctx context.Context) error {
	if a.Config.StoreDriver == config.StoreDriverMemory {
		a.Log.Warn("using in-memory store, data will not survive a restart")
		store := memory.New()
		a.UserRepo = store.Users()
		a.PlaceRepo = store.Places()
		a.TxManager = store.TxManager()
		return nil
	}

	pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if err := db.Migrate(ctx, pool, a.Log); err != nil {
		pool.Close()
		return err
	}

	a.Pool = pool
	a.UserRepo = userrepo.NewPgRepository(pool)
	a.PlaceRepo = placerepo.NewPgRepository(pool)
	a.TxManager = placerepo.NewPgTxManager(pool)
	return nil
}

func (a *App) initializeImages(ctx context.Context) error {
	mc := a.Config.Media
	if mc.Backend == config.MediaBackendS3 {
		store, err := media.NewS3Store(ctx, media.S3Config{
			Bucket:    mc.S3Bucket,
			Region:    mc.S3Region,
			Endpoint:  mc.S3Endpoint,
			AccessKey: mc.S3AccessKey,
			SecretKey: mc.S3SecretKey,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize s3 image store: %w", err)
		}
		a.Images = store
		return nil
	}

	store, err := media.NewDiskStore(mc.UploadDir)
	if err != nil {
		return err
	}
	a.Images = store
	return nil
}

// StartBackground launches the feed hub and pool sampling. Both stop when
// ctx is cancelled.
func (a *App) StartBackground(ctx context.Context) {
	go a.Hub.Run(ctx)
	if a.Pool != nil {
		db.StartPoolMetrics(ctx, a.Pool, constants.DBPoolMetricsInterval)
	}
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func initializeLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}
