// services/profile_service.go
package services

import (
	"errors"
	"log"

	"recycle-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// profileConsole mirrors the console rules for user profiles: search on
// account identity columns plus the legacy QR value, filter on the
// member type only.
var profileConsole = ConsoleBinding{
	SearchColumns: []string{"accounts.username", "accounts.email", "user_profiles.qr_code_data"},
	FilterColumns: map[string]string{"user_type": "user_profiles.user_type"},
	DateColumn:    "user_profiles.created_at",
}

// ProfileForAccount looks up the profile attached to an account. The
// caller must handle found=false — accounts legitimately exist without
// a profile until provisioning (or fix_qr_codes) creates one.
func (s *ProfileService) ProfileForAccount(accountID string) (*models.UserProfile, bool, error) {
	var profile models.UserProfile
	err := s.DB.Where("account_id = ?", accountID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &profile, true, nil
}

// ListProfiles is the console list view: username, total points and the
// legacy QR value per row.
func (s *ProfileService) ListProfiles(c *fiber.Ctx) error {
	type profileRow struct {
		ID          string          `json:"id"`
		Username    string          `json:"username"`
		TotalPoints int             `json:"total_points"`
		QRCodeData  *string         `json:"qr_code_data,omitempty"`
		StudentID   *string         `json:"student_id,omitempty"`
		UserType    models.UserType `json:"user_type"`
	}

	db := s.DB.Model(&models.UserProfile{}).
		Joins("JOIN accounts ON accounts.id = user_profiles.account_id").
		Select("user_profiles.id, accounts.username, user_profiles.total_points, user_profiles.qr_code_data, user_profiles.student_id, user_profiles.user_type")

	db, err := profileConsole.Apply(db, c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rows []profileRow
	if err := db.Scan(&rows).Error; err != nil {
		log.Printf("DB Error listing profiles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list profiles"})
	}

	return c.JSON(rows)
}

// GetProfile returns the full detail view including recent activity.
func (s *ProfileService) GetProfile(c *fiber.Ctx) error {
	var profile models.UserProfile
	err := s.DB.
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC").Limit(20) }).
		Preload("Redemptions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC").Limit(20) }).
		First(&profile, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(profile)
}

// UpdateProfile applies admin edits. Uniqueness violations on
// student_id / qr_code_data come back as 409 rather than overwriting.
func (s *ProfileService) UpdateProfile(c *fiber.Ctx) error {
	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		TotalPoints *int             `json:"total_points"`
		StudentID   *string          `json:"student_id"`
		QRCodeData  *string          `json:"qr_code_data"`
		UserType    *models.UserType `json:"user_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.TotalPoints != nil {
		profile.TotalPoints = *req.TotalPoints
	}
	if req.StudentID != nil {
		profile.StudentID = req.StudentID
	}
	if req.QRCodeData != nil {
		profile.QRCodeData = req.QRCodeData
	}
	if req.UserType != nil {
		profile.UserType = *req.UserType
	}

	if err := profile.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Save(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "student_id or qr_code_data already in use"})
		}
		log.Printf("DB Error updating profile %s: %v", profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(profile)
}

// DeleteProfile removes a profile; entries and redemptions cascade.
func (s *ProfileService) DeleteProfile(c *fiber.Ctx) error {
	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Select("Entries", "Redemptions").Delete(&profile).Error; err != nil {
		log.Printf("DB Error deleting profile %s: %v", profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile deleted"})
}
