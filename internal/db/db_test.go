package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/amigo-matching/internal/config"
	"github.com/oggyb/amigo-matching/internal/db"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"amigo.db", "amigo.db?_foreign_keys=on"},
		{"file:amigo.db?cache=shared", "file:amigo.db?cache=shared&_foreign_keys=on"},
		{"amigo.db?_foreign_keys=off", "amigo.db?_foreign_keys=off"},
		{"amigo.db?_fk=1", "amigo.db?_fk=1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, db.SQLiteDSN(tt.in), tt.in)
	}
}

func TestSQLiteDeleteCascades(t *testing.T) {
	cfg, err := config.FromMap(map[string]string{
		"DB_DRIVER": "sqlite",
		"DB_NAME":   filepath.Join(t.TempDir(), "amigo"),
		"LOG_LEVEL": "error",
	})
	require.NoError(t, err)

	database, err := db.NewDB(cfg)
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	users := []db.User{
		{ID: 1, Name: "a", Age: 25, Gender: db.GenderMale, Orientation: db.OrientationHetero},
		{ID: 2, Name: "b", Age: 25, Gender: db.GenderFemale, Orientation: db.OrientationHetero},
	}
	require.NoError(t, database.Create(&users).Error)
	require.NoError(t, database.Create(&db.Like{FromID: 1, ToID: 2}).Error)
	require.NoError(t, database.Create(&db.Match{UserA: 1, UserB: 2}).Error)

	// a like pointing at nobody is rejected
	assert.Error(t, database.Create(&db.Like{FromID: 2, ToID: 404}).Error)

	require.NoError(t, database.Delete(&db.User{}, 1).Error)

	var likes, matches int64
	require.NoError(t, database.Model(&db.Like{}).Count(&likes).Error)
	require.NoError(t, database.Model(&db.Match{}).Count(&matches).Error)
	assert.Zero(t, likes)
	assert.Zero(t, matches)
}
