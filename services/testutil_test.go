package services

import (
	"testing"

	"recycle-rewards-system/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full
// schema migrated. TranslateError is on so duplicate-key checks behave
// like they do against Postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // keep every connection on the same :memory: DB

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.UserProfile{},
		&models.Entry{},
		&models.RewardItem{},
		&models.RedeemedPoints{},
		&models.Device{},
		&models.DeviceLog{},
	))

	return db
}

func seedAccount(t *testing.T, db *gorm.DB, id, username string) *models.Account {
	t.Helper()
	account := &models.Account{ID: id, Username: username, Email: username + "@campus.edu", IsActive: true}
	require.NoError(t, db.Create(account).Error)
	return account
}

func seedProfile(t *testing.T, db *gorm.DB, id, accountID string, studentID *string) *models.UserProfile {
	t.Helper()
	profile := &models.UserProfile{
		ID:        id,
		AccountID: accountID,
		StudentID: studentID,
		UserType:  models.UserTypeStudent,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func strPtr(s string) *string { return &s }
