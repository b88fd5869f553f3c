package services

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"recycle-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProfileApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewProfileService(db)

	app := fiber.New()
	app.Get("/admin/profiles", svc.ListProfiles)
	app.Get("/admin/profiles/:id", svc.GetProfile)
	app.Patch("/admin/profiles/:id", svc.UpdateProfile)
	app.Delete("/admin/profiles/:id", svc.DeleteProfile)
	return app, db
}

func listProfiles(t *testing.T, app *fiber.App, query string) []map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest("GET", "/admin/profiles"+query, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var rows []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	return rows
}

func TestListProfiles_SearchMatchesIdentityColumnsOnly(t *testing.T) {
	app, db := newProfileApp(t)
	seedAccount(t, db, "acc-1", "alice")
	seedProfile(t, db, "prof-1", "acc-1", strPtr("S100"))
	seedAccount(t, db, "acc-2", "bob")
	seedProfile(t, db, "prof-2", "acc-2", strPtr("S200"))

	rows := listProfiles(t, app, "?q=ali")
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0]["username"])

	// Email matches too (identity column).
	rows = listProfiles(t, app, "?q=bob%40campus.edu")
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0]["username"])

	// Numeric columns are not searchable: S100 is a student_id, which
	// is a filter-by-exact concern, not free text. Searching for the
	// points value must not match anything either.
	require.NoError(t, db.Model(&models.UserProfile{}).Where("id = ?", "prof-1").Update("total_points", 777).Error)
	rows = listProfiles(t, app, "?q=777")
	assert.Empty(t, rows)
}

func TestListProfiles_FilterByUserType(t *testing.T) {
	app, db := newProfileApp(t)
	seedAccount(t, db, "acc-1", "alice")
	seedProfile(t, db, "prof-1", "acc-1", nil)
	seedAccount(t, db, "acc-2", "prof-smith")
	teacher := seedProfile(t, db, "prof-2", "acc-2", nil)
	require.NoError(t, db.Model(teacher).Update("user_type", models.UserTypeTeacher).Error)

	rows := listProfiles(t, app, "?user_type=teacher")
	require.Len(t, rows, 1)
	assert.Equal(t, "prof-smith", rows[0]["username"])
}

func TestListProfiles_RejectsBadLimitAndDateParams(t *testing.T) {
	app, _ := newProfileApp(t)

	for _, query := range []string{"?limit=0", "?limit=9999", "?limit=abc", "?month=5", "?year=1full", "?year=2026&day=3"} {
		req := httptest.NewRequest("GET", "/admin/profiles"+query, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "query %s", query)
		resp.Body.Close()
	}
}

func TestUpdateProfile_DuplicateStudentIDConflicts(t *testing.T) {
	app, db := newProfileApp(t)
	seedAccount(t, db, "acc-1", "alice")
	seedProfile(t, db, "prof-1", "acc-1", strPtr("S100"))
	seedAccount(t, db, "acc-2", "bob")
	seedProfile(t, db, "prof-2", "acc-2", strPtr("S200"))

	resp := postJSON(t, app, "PATCH", "/admin/profiles/prof-2", fiber.Map{"student_id": "S100"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The losing write changed nothing.
	var bob models.UserProfile
	require.NoError(t, db.First(&bob, "id = ?", "prof-2").Error)
	require.NotNil(t, bob.StudentID)
	assert.Equal(t, "S200", *bob.StudentID)
}

func TestUpdateProfile_RejectsNegativePointsAndBadType(t *testing.T) {
	app, db := newProfileApp(t)
	seedAccount(t, db, "acc-1", "alice")
	seedProfile(t, db, "prof-1", "acc-1", nil)

	for _, body := range []fiber.Map{
		{"total_points": -5},
		{"user_type": "janitor"},
	} {
		resp := postJSON(t, app, "PATCH", "/admin/profiles/prof-1", body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}

	var profile models.UserProfile
	require.NoError(t, db.First(&profile, "id = ?", "prof-1").Error)
	assert.Zero(t, profile.TotalPoints)
	assert.Equal(t, models.UserTypeStudent, profile.UserType)
}

func TestDeleteProfile_CascadesEntriesAndRedemptions(t *testing.T) {
	app, db := newProfileApp(t)
	seedAccount(t, db, "acc-1", "alice")
	seedProfile(t, db, "prof-1", "acc-1", nil)

	item := &models.RewardItem{ID: "rw-1", RewardName: "Water Bottle", PointsRequired: 50}
	require.NoError(t, db.Create(item).Error)
	require.NoError(t, db.Create(&models.Entry{ID: "en-1", UserProfileID: "prof-1", NoBottle: 2, Points: 4}).Error)
	require.NoError(t, db.Create(&models.RedeemedPoints{ID: "rd-1", UserProfileID: "prof-1", RewardItemID: "rw-1", RedeemedPoints: 50}).Error)

	req := httptest.NewRequest("DELETE", "/admin/profiles/prof-1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var entries, redemptions int64
	require.NoError(t, db.Model(&models.Entry{}).Where("user_profile_id = ?", "prof-1").Count(&entries).Error)
	require.NoError(t, db.Model(&models.RedeemedPoints{}).Where("user_profile_id = ?", "prof-1").Count(&redemptions).Error)
	assert.Zero(t, entries)
	assert.Zero(t, redemptions)

	// The reward catalog itself is untouched.
	var items int64
	require.NoError(t, db.Model(&models.RewardItem{}).Count(&items).Error)
	assert.EqualValues(t, 1, items)
}

func TestProfileForAccount_ExplicitNotFound(t *testing.T) {
	_, db := newProfileApp(t)
	svc := NewProfileService(db)
	seedAccount(t, db, "acc-1", "alice")

	profile, found, err := svc.ProfileForAccount("acc-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, profile)

	seedProfile(t, db, "prof-1", "acc-1", nil)
	profile, found, err = svc.ProfileForAccount("acc-1")
	require.NoError(t, err)
	assert.True(t, found)
	require.NotNil(t, profile)
	assert.Equal(t, "prof-1", profile.ID)
}
