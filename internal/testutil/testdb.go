// Package testutil wires in-memory stores for package tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/amigo-matching/internal/app"
	"github.com/oggyb/amigo-matching/internal/cache"
	"github.com/oggyb/amigo-matching/internal/config"
	"github.com/oggyb/amigo-matching/internal/db"
)

// NewDB opens a private in-memory SQLite database with the full schema.
//
// The pool is capped at one connection so concurrent callers queue on the
// pool instead of tripping over SQLite's table locks.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// NewFileDB opens a SQLite database file under t.TempDir() with the default
// connection pool, so concurrent transactions really contend: the loser of a
// write race gets SQLITE_BUSY and goes through the repository retry path.
func NewFileDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "amigo.db") + "?_busy_timeout=5000"
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// NewAppContext wires a test database, a miniredis-backed cache, a silent logger
// and a fixed clock.
func NewAppContext(t *testing.T, now time.Time) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()
	return newAppContext(t, NewDB(t), now)
}

// NewConcurrentAppContext is NewAppContext on top of NewFileDB.
func NewConcurrentAppContext(t *testing.T, now time.Time) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()
	return newAppContext(t, NewFileDB(t), now)
}

func newAppContext(t *testing.T, database *gorm.DB, now time.Time) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg, err := config.FromMap(map[string]string{"REDIS_ADDR": mr.Addr()})
	require.NoError(t, err)

	redisCache := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = redisCache.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
	appCtx := app.New(database, redisCache, log, cfg.Premium)
	appCtx.Now = func() time.Time { return now }
	return appCtx, mr
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// User builds a minimal valid profile.
func User(id int64, gender, orientation string) db.User {
	return db.User{
		ID:          id,
		Name:        fmt.Sprintf("user%d", id),
		Age:         25,
		Gender:      gender,
		Orientation: orientation,
		Country:     "KZ",
		City:        "Almaty",
		Goal:        "relationship",
	}
}

// Premium marks u as premium until expiresAt.
func Premium(u db.User, expiresAt time.Time) db.User {
	u.IsPremium = true
	u.PremiumExpiresAt = &expiresAt
	return u
}

// InsertUsers writes users verbatim, subscription columns included.
func InsertUsers(t *testing.T, database *gorm.DB, users ...db.User) {
	t.Helper()
	require.NoError(t, database.Create(&users).Error)
}

// InsertLikes writes directed likes given as [from, to] pairs.
func InsertLikes(t *testing.T, database *gorm.DB, pairs ...[2]int64) {
	t.Helper()
	for _, p := range pairs {
		require.NoError(t, database.Create(&db.Like{FromID: p[0], ToID: p[1]}).Error)
	}
}
