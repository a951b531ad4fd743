package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/amigo-matching/internal/db"
)

func TestSeedTestData(t *testing.T) {
	database, err := gorm.Open(sqlite.Open("file:seed_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	// seeding twice must start from a clean slate each time
	require.NoError(t, db.SeedTestData(database))
	require.NoError(t, db.SeedTestData(database))

	var users int64
	require.NoError(t, database.Model(&db.User{}).Count(&users).Error)
	assert.Equal(t, int64(20), users)

	var badMatches int64
	require.NoError(t, database.Model(&db.Match{}).Where("user_a >= user_b").Count(&badMatches).Error)
	assert.Zero(t, badMatches)

	// every match is backed by both directed likes
	var orphanMatches int64
	require.NoError(t, database.Table("matches m").
		Where("NOT EXISTS (SELECT 1 FROM likes l WHERE l.from_id = m.user_a AND l.to_id = m.user_b)").
		Or("NOT EXISTS (SELECT 1 FROM likes l WHERE l.from_id = m.user_b AND l.to_id = m.user_a)").
		Count(&orphanMatches).Error)
	assert.Zero(t, orphanMatches)
}

func TestCanonicalPair(t *testing.T) {
	a, b := db.CanonicalPair(9, 3)
	assert.Equal(t, int64(3), a)
	assert.Equal(t, int64(9), b)

	a, b = db.CanonicalPair(3, 9)
	assert.Equal(t, int64(3), a)
	assert.Equal(t, int64(9), b)
}
