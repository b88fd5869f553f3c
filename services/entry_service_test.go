package services

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"recycle-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEntryApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewEntryService(db)

	app := fiber.New()
	app.Get("/admin/entries", svc.ListEntries)
	app.Post("/admin/entries", svc.CreateEntry)
	app.Get("/admin/entries/:id", svc.GetEntry)
	app.Delete("/admin/entries/:id", svc.DeleteEntry)
	return app, db
}

func seedEntryAt(t *testing.T, db *gorm.DB, id string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Entry{
		ID: id, UserProfileID: "prof-1", NoBottle: 1, Points: 2, CreatedAt: at,
	}).Error)
}

func TestListEntries_DateHierarchyDrillDown(t *testing.T) {
	app, db := newEntryApp(t)
	seedAccount(t, db, "acc-1", "alice")
	seedProfile(t, db, "prof-1", "acc-1", nil)

	seedEntryAt(t, db, "en-jan", time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	seedEntryAt(t, db, "en-mar-a", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	seedEntryAt(t, db, "en-mar-b", time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC))
	seedEntryAt(t, db, "en-old", time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))

	fetch := func(query string) int {
		req := httptest.NewRequest("GET", "/admin/entries"+query, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		defer resp.Body.Close()
		var rows []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
		return len(rows)
	}

	assert.Equal(t, 4, fetch(""))
	assert.Equal(t, 3, fetch("?year=2026"))
	assert.Equal(t, 2, fetch("?year=2026&month=3"))
	assert.Equal(t, 2, fetch("?year=2026&month=3&day=2"))
	assert.Equal(t, 0, fetch("?year=2026&month=3&day=3"))
}

func TestCreateEntry_RejectsInvalidCounts(t *testing.T) {
	app, db := newEntryApp(t)
	seedAccount(t, db, "acc-1", "alice")
	seedProfile(t, db, "prof-1", "acc-1", nil)

	for _, body := range []fiber.Map{
		{"user_profile_id": "prof-1", "no_bottle": -1, "points": 2},
		{"user_profile_id": "prof-1", "no_bottle": 1, "points": -2},
	} {
		resp := postJSON(t, app, "POST", "/admin/entries", body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}

	var count int64
	require.NoError(t, db.Model(&models.Entry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateEntry_DefaultsToOneBottle(t *testing.T) {
	app, db := newEntryApp(t)
	seedAccount(t, db, "acc-1", "alice")
	seedProfile(t, db, "prof-1", "acc-1", nil)

	resp := postJSON(t, app, "POST", "/admin/entries", fiber.Map{
		"user_profile_id": "prof-1", "points": 2,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var entry models.Entry
	require.NoError(t, db.First(&entry, "user_profile_id = ?", "prof-1").Error)
	assert.Equal(t, 1, entry.NoBottle)
}

func TestCreateEntry_UnknownProfile(t *testing.T) {
	app, _ := newEntryApp(t)

	resp := postJSON(t, app, "POST", "/admin/entries", fiber.Map{
		"user_profile_id": "ghost", "points": 2,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
