// services/redemption_service.go
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

type RedemptionService struct {
	DB *gorm.DB
}

func NewRedemptionService(db *gorm.DB) *RedemptionService {
	return &RedemptionService{DB: db}
}

var redemptionConsole = ConsoleBinding{
	SearchColumns: []string{"accounts.username", "reward_items.reward_name"},
	FilterColumns: map[string]string{"reward_item_id": "redeemed_points.reward_item_id"},
	DateColumn:    "redeemed_points.created_at",
}

func (s *RedemptionService) ListRedemptions(c *fiber.Ctx) error {
	type redemptionRow struct {
		ID             string    `json:"id"`
		Username       string    `json:"username"`
		RewardName     string    `json:"reward_name"`
		RedeemedPoints int       `json:"redeemed_points"`
		CreatedAt      time.Time `json:"created_at"`
	}

	db := s.DB.Model(&models.RedeemedPoints{}).
		Joins("JOIN user_profiles ON user_profiles.id = redeemed_points.user_profile_id").
		Joins("JOIN accounts ON accounts.id = user_profiles.account_id").
		Joins("JOIN reward_items ON reward_items.id = redeemed_points.reward_item_id").
		Select("redeemed_points.id, accounts.username, reward_items.reward_name, redeemed_points.redeemed_points, redeemed_points.created_at")

	db, err := redemptionConsole.Apply(db, c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rows []redemptionRow
	if err := db.Scan(&rows).Error; err != nil {
		log.Printf("DB Error listing redemptions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list redemptions"})
	}

	return c.JSON(rows)
}

func (s *RedemptionService) GetRedemption(c *fiber.Ctx) error {
	var redemption models.RedeemedPoints
	if err := s.DB.Preload("RewardItem").First(&redemption, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Redemption not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(redemption)
}

// CreateRedemption records a redemption event. Like entries these rows
// are immutable once written; there is no update handler.
func (s *RedemptionService) CreateRedemption(c *fiber.Ctx) error {
	var req struct {
		UserProfileID  string `json:"user_profile_id"`
		RewardItemID   string `json:"reward_item_id"`
		RedeemedPoints int    `json:"redeemed_points"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", req.UserProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var item models.RewardItem
	if err := s.DB.First(&item, "id = ?", req.RewardItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if req.RedeemedPoints == 0 {
		req.RedeemedPoints = item.PointsRequired
	}

	redemption := &models.RedeemedPoints{
		ID:             uuid.NewString(),
		UserProfileID:  req.UserProfileID,
		RewardItemID:   req.RewardItemID,
		RedeemedPoints: req.RedeemedPoints,
	}
	if err := redemption.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Create(redemption).Error; err != nil {
		log.Printf("DB Error creating redemption: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create redemption"})
	}

	return c.Status(fiber.StatusCreated).JSON(redemption)
}

func (s *RedemptionService) DeleteRedemption(c *fiber.Ctx) error {
	var redemption models.RedeemedPoints
	if err := s.DB.First(&redemption, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Redemption not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&redemption).Error; err != nil {
		log.Printf("DB Error deleting redemption %s: %v", redemption.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete redemption"})
	}

	return c.JSON(fiber.Map{"message": "Redemption deleted"})
}
