package app

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/amigo-matching/internal/cache"
	"github.com/oggyb/amigo-matching/internal/config"
)

// AppContext holds shared dependencies (DB, Redis, Logger, clock, product config).
// It is built once in main and handed to every component constructor.
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Premium    config.PremiumConfig
	// Now is the engine clock. Always returns UTC.
	Now func() time.Time
}

// New creates a new AppContext using the wall clock.
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, premium config.PremiumConfig) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Premium:    premium,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}
