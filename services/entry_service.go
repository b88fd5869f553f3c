// services/entry_service.go
package services

import (
	"errors"
	"log"
	"time"

	"recycle-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntryService struct {
	DB *gorm.DB
}

func NewEntryService(db *gorm.DB) *EntryService {
	return &EntryService{DB: db}
}

// Entries are searched by the depositor's username only and drilled
// down by deposit date. Points and bottle counts are display columns,
// not facets.
var entryConsole = ConsoleBinding{
	SearchColumns: []string{"accounts.username"},
	DateColumn:    "entries.created_at",
}

func (s *EntryService) ListEntries(c *fiber.Ctx) error {
	type entryRow struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		NoBottle  int       `json:"no_bottle"`
		Points    int       `json:"points"`
		CreatedAt time.Time `json:"created_at"`
	}

	db := s.DB.Model(&models.Entry{}).
		Joins("JOIN user_profiles ON user_profiles.id = entries.user_profile_id").
		Joins("JOIN accounts ON accounts.id = user_profiles.account_id").
		Select("entries.id, accounts.username, entries.no_bottle, entries.points, entries.created_at")

	db, err := entryConsole.Apply(db, c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rows []entryRow
	if err := db.Scan(&rows).Error; err != nil {
		log.Printf("DB Error listing entries: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list entries"})
	}

	return c.JSON(rows)
}

func (s *EntryService) GetEntry(c *fiber.Ctx) error {
	var entry models.Entry
	if err := s.DB.First(&entry, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Entry not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(entry)
}

// CreateEntry records a manual deposit correction. Entries are written
// once: there is no update handler, created_at never changes.
func (s *EntryService) CreateEntry(c *fiber.Ctx) error {
	var req struct {
		UserProfileID string `json:"user_profile_id"`
		NoBottle      int    `json:"no_bottle"`
		Points        int    `json:"points"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.NoBottle == 0 {
		req.NoBottle = 1
	}

	entry := &models.Entry{
		ID:            uuid.NewString(),
		UserProfileID: req.UserProfileID,
		NoBottle:      req.NoBottle,
		Points:        req.Points,
	}
	if err := entry.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", req.UserProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Create(entry).Error; err != nil {
		log.Printf("DB Error creating entry: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create entry"})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (s *EntryService) DeleteEntry(c *fiber.Ctx) error {
	var entry models.Entry
	if err := s.DB.First(&entry, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Entry not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&entry).Error; err != nil {
		log.Printf("DB Error deleting entry %s: %v", entry.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete entry"})
	}

	return c.JSON(fiber.Map{"message": "Entry deleted"})
}
