// services/reward_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"recycle-rewards-system/models"
	"recycle-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

var rewardConsole = ConsoleBinding{
	SearchColumns: []string{"reward_name"},
}

// --- Reward catalog ---

func (s *RewardService) ListRewardItems(c *fiber.Ctx) error {
	db, err := rewardConsole.Apply(s.DB.Model(&models.RewardItem{}), c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var items []models.RewardItem
	if err := db.Find(&items).Error; err != nil {
		log.Printf("DB Error listing reward items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list reward items"})
	}
	return c.JSON(items)
}

func (s *RewardService) GetRewardItem(c *fiber.Ctx) error {
	var item models.RewardItem
	if err := s.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(item)
}

func (s *RewardService) CreateRewardItem(c *fiber.Ctx) error {
	var req struct {
		RewardName     string `json:"reward_name"`
		PointsRequired int    `json:"points_required"`
		Icon           string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Icon == "" {
		req.Icon = "🏆"
	}

	item := &models.RewardItem{
		ID:             uuid.NewString(),
		RewardName:     req.RewardName,
		PointsRequired: req.PointsRequired,
		Icon:           req.Icon,
	}
	if err := item.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Create(item).Error; err != nil {
		log.Printf("DB Error creating reward item: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create reward item"})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (s *RewardService) UpdateRewardItem(c *fiber.Ctx) error {
	var item models.RewardItem
	if err := s.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		RewardName     *string `json:"reward_name"`
		PointsRequired *int    `json:"points_required"`
		Icon           *string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.RewardName != nil {
		item.RewardName = *req.RewardName
	}
	if req.PointsRequired != nil {
		item.PointsRequired = *req.PointsRequired
	}
	if req.Icon != nil {
		item.Icon = *req.Icon
	}

	if err := item.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Save(&item).Error; err != nil {
		log.Printf("DB Error updating reward item %s: %v", item.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update reward item"})
	}

	return c.JSON(item)
}

func (s *RewardService) DeleteRewardItem(c *fiber.Ctx) error {
	var item models.RewardItem
	if err := s.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&item).Error; err != nil {
		log.Printf("DB Error deleting reward item %s: %v", item.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete reward item"})
	}

	return c.JSON(fiber.Map{"message": "Reward item deleted"})
}

// UploadRewardImage attaches a catalog photo to a reward item. The file
// goes to R2; only the public URL lands in the row.
func (s *RewardService) UploadRewardImage(c *fiber.Ctx) error {
	var item models.RewardItem
	if err := s.DB.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
	}

	key := fmt.Sprintf("rewards/%s%s", item.ID, filepath.Ext(fileHeader.Filename))
	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("R2 upload failed for reward item %s: %v", item.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
	}

	item.ImageURL = url
	if err := s.DB.Save(&item).Error; err != nil {
		log.Printf("DB Error saving reward image URL: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save image URL"})
	}

	return c.JSON(item)
}
