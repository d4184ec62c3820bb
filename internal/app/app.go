package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloudstorage/internal/cache/memory"
	"cloudstorage/internal/cache/redis"
	"cloudstorage/internal/config"
	"cloudstorage/internal/dbs/postgres"
	"cloudstorage/internal/lib/token"
	"cloudstorage/internal/metrics"
	cacherepo "cloudstorage/internal/repositories/cache"
	cachefilesrepo "cloudstorage/internal/repositories/cache/files"
	cachesessionrepo "cloudstorage/internal/repositories/cache/session"
	filerepo "cloudstorage/internal/repositories/db/file"
	userrepo "cloudstorage/internal/repositories/db/user"
	authservice "cloudstorage/internal/services/auth"
	fileservice "cloudstorage/internal/services/file"
	userservice "cloudstorage/internal/services/user"

	"github.com/jmoiron/sqlx"
)

type App struct {
	AuthService *authservice.AuthService
	UserService *userservice.UserService
	FileService *fileservice.FileService
	Metrics     *metrics.Metrics

	db            *sqlx.DB
	closeCache    func() error
	registry      *memory.Client
	sweepInterval time.Duration
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	listCache, closeCache, err := newListCache(ctx, log, cfg.Cache)
	if err != nil {
		_ = db.Close()
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	codec, err := token.NewCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		_ = db.Close()
		_ = closeCache()
		log.Error("failed to init token codec", "err", err)
		return nil, fmt.Errorf("failed to init token codec: %w", err)
	}

	registry := memory.New()

	appMetrics := metrics.New()
	appMetrics.TrackActiveSessions(registry.Len)

	userRepo := userrepo.NewRepository(db)

	fileRepo := filerepo.NewRepository(db)

	sessionCacheRepo := cachesessionrepo.New(registry)

	fileCacheRepo := cachefilesrepo.New(listCache, cfg.Cache.ListTTL)

	userService := userservice.New(log, userRepo, userRepo)

	authService := authservice.New(log, userService, codec, sessionCacheRepo)

	fileService := fileservice.New(log, fileRepo, fileCacheRepo, authService)

	return &App{
		AuthService: authService,
		UserService: userService,
		FileService: fileService,
		Metrics:     appMetrics,
		db:            db,
		closeCache:    closeCache,
		registry:      registry,
		sweepInterval: cfg.Auth.SweepInterval,
	}, nil
}

// RunSweeper drops expired sessions until ctx is done. It is a no-op when
// the sweep interval is not positive.
func (a *App) RunSweeper(ctx context.Context) {
	if a.sweepInterval <= 0 {
		return
	}

	a.registry.RunSweeper(ctx, a.sweepInterval, a.Metrics.SessionsSwept)
}

func (a *App) Close() error {
	cacheErr := a.closeCache()
	dbErr := a.db.Close()

	if dbErr != nil {
		return fmt.Errorf("failed to close db: %w", dbErr)
	}
	if cacheErr != nil {
		return fmt.Errorf("failed to close cache: %w", cacheErr)
	}

	return nil
}

// newListCache picks redis when an address is configured and an in-process
// store otherwise.
func newListCache(ctx context.Context, log *slog.Logger, cfg config.Cache) (cacherepo.Cache, func() error, error) {
	if cfg.Addr == "" {
		log.Info("file list cache kept in process")
		return memory.New(), func() error { return nil }, nil
	}

	client, err := redis.New(ctx, redis.Config{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Prefix:   cfg.Prefix,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info("file list cache backed by redis", slog.String("addr", cfg.Addr))

	return client, client.Close, nil
}
