package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"recycle-rewards-system/models"
	"recycle-rewards-system/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newConsoleApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("ADMIN_SERVICE_TOKEN", "console-test-token")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Account{}, &models.UserProfile{}, &models.Entry{},
		&models.RewardItem{}, &models.RedeemedPoints{},
		&models.Device{}, &models.DeviceLog{},
	))

	app := fiber.New()
	SetupAdminRoutes(app,
		services.NewProfileService(db),
		services.NewEntryService(db),
		services.NewRewardService(db),
		services.NewRedemptionService(db),
		services.NewDeviceService(db),
	)
	return app
}

func TestAdminRoutes_RequireGatewayToken(t *testing.T) {
	app := newConsoleApp(t)

	req := httptest.NewRequest("GET", "/admin/devices", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest("GET", "/admin/devices", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest("GET", "/admin/devices", nil)
	req.Header.Set("Authorization", "Bearer console-test-token")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminRoutes_DeviceLogCreationUnavailable(t *testing.T) {
	app := newConsoleApp(t)

	// Even a perfectly-formed authenticated payload is turned away.
	req := httptest.NewRequest("POST", "/admin/device-logs",
		strings.NewReader(`{"log_type":"heartbeat","message":"manual"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer console-test-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminRoutes_NoEntryUpdateRoute(t *testing.T) {
	app := newConsoleApp(t)

	// Entries are immutable: PATCH has no handler at all.
	req := httptest.NewRequest("PATCH", "/admin/entries/some-id",
		strings.NewReader(`{"points":99}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer console-test-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
