package cache

import (
	"fmt"

	"github.com/bookstore/backend/internal/application/report"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReportCache is a report.Cache that owns resources
type ReportCache interface {
	report.Cache
	Close() error
}

// Factory creates report caches based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to the in-memory cache.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache creates a Redis backed report cache
func (f *Factory) CreateRedisCache() (ReportCache, error) {
	c, err := NewRedisReportCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis report cache: %w", err)
	}
	return c, nil
}

// CreateCache returns the in-memory cache when Redis is disabled. Otherwise it
// tries Redis and falls back to memory when allowed.
func (f *Factory) CreateCache() (ReportCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory report cache")
		return NewInMemoryReportCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("Using Redis report cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for report cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory report cache. "+
		"Report results will not be shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryReportCache(), nil
}
