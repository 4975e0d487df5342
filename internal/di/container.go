// Package di assembles the application's services from configuration.
package di

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"surveydesk/internal/auth"
	"surveydesk/internal/cache"
	"surveydesk/internal/config"
	"surveydesk/internal/db"
	"surveydesk/internal/metrics"
	"surveydesk/internal/repository"
	"surveydesk/internal/service"
)

// Container holds all application dependencies.
type Container struct {
	DB      *gorm.DB
	Cache   cache.Store
	Tokens  cache.Store
	Metrics *metrics.Metrics
	JWT     *auth.JWTService

	Users   service.UserService
	Auth    service.AuthService
	Surveys service.SurveyService
	Reports service.ReportService

	redis *cache.Redis
}

// BuildContainer opens the database, migrates it, seeds the default accounts and wires the services.
// reg may be nil, in which case metrics are not recorded.
func BuildContainer(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gormDB, err := db.Open(ctx, cfg.DB, logger.Named("gorm"))
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gormDB); err != nil {
		_ = db.Close(gormDB)
		return nil, err
	}

	c := &Container{DB: gormDB, JWT: auth.NewJWTService(cfg.JWTSecret)}
	if reg != nil {
		c.Metrics = metrics.MustNewMetrics(reg)
	}
	c.Cache, c.redis = newCache(ctx, cfg, logger)
	// Refresh tokens must outlive read-cache eviction, so without Redis they get
	// their own unbounded store.
	c.Tokens = c.Cache
	if c.redis == nil {
		c.Tokens = cache.NewSessionMemory(auth.RefreshTokenExpiry)
	}

	userRepo := repository.NewUserRepository(gormDB)
	surveyRepo := repository.NewSurveyRepository(gormDB)

	c.Users = service.NewUserService(userRepo, logger.Named("users"))
	c.Auth = service.NewAuthService(userRepo, c.JWT, auth.NewTokenStore(c.Tokens), c.Metrics, logger.Named("auth"))
	c.Surveys = service.NewSurveyService(surveyRepo, c.Cache, cfg.CacheTTL, c.Metrics, logger.Named("surveys"))
	c.Reports = service.NewReportService(c.Surveys, logger.Named("reports"))

	if err := c.Users.EnsureDefaultUsers(ctx); err != nil {
		_ = c.Cleanup()
		return nil, fmt.Errorf("seed default users: %w", err)
	}
	return c, nil
}

// newCache prefers Redis when configured and reachable, else an in-process LRU.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, *cache.Redis) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(0), nil
	}
	client := cache.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, logger.Named("redis"))
	if err := client.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, using in-process cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return cache.NewMemory(0), nil
	}
	logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	return client, client
}

// SharedCache reports whether the read cache lives in Redis and is therefore
// visible to every process using the same database.
func (c *Container) SharedCache() bool {
	return c.redis != nil
}

// Cleanup releases the database and cache connections.
func (c *Container) Cleanup() error {
	if c.redis != nil {
		_ = c.redis.Close()
	}
	return db.Close(c.DB)
}
