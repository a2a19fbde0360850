package services

import (
	"testing"

	"github.com/jFurkan/katil-oyunu-sub000/internal/database"
	"github.com/jFurkan/katil-oyunu-sub000/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB gives each test an isolated in-memory database running the
// production schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same :memory: database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func registerUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user, err := NewUserService(db).Register(nickname, "conn-"+nickname)
	require.NoError(t, err)
	return user
}

func createTeam(t *testing.T, db *gorm.DB, name, password string, userID uint) *models.Team {
	t.Helper()
	team, err := NewTeamService(db).CreateTeam(name, password, userID, "ghost", "#aa0000")
	require.NoError(t, err)
	return team
}
