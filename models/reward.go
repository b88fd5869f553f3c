package models

import (
	"fmt"
	"time"
)

// RewardItem is a catalog entry students can spend points on.
type RewardItem struct {
	ID             string `gorm:"primaryKey" json:"id"`
	RewardName     string `gorm:"size:100;not null" json:"reward_name"`
	PointsRequired int    `gorm:"not null;check:points_required >= 0" json:"points_required"`
	Icon           string `gorm:"size:10;default:'🏆'" json:"icon"`
	// ImageURL points at the uploaded catalog image on R2, when one
	// has been attached through the console.
	ImageURL  string    `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (r *RewardItem) Validate() error {
	if r.RewardName == "" {
		return fmt.Errorf("reward_name is required")
	}
	if r.PointsRequired < 0 {
		return fmt.Errorf("points_required must not be negative (got %d)", r.PointsRequired)
	}
	return nil
}

// RedeemedPoints is one redemption event: a profile spent points on a
// reward item. Written once, never updated.
type RedeemedPoints struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	UserProfileID  string    `gorm:"index;not null" json:"user_profile_id"`
	RewardItemID   string    `gorm:"index;not null" json:"reward_item_id"`
	RedeemedPoints int       `gorm:"not null;check:redeemed_points >= 0" json:"redeemed_points"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`

	RewardItem *RewardItem `json:"reward_item,omitempty" gorm:"foreignKey:RewardItemID"`
}

func (r *RedeemedPoints) Validate() error {
	if r.RedeemedPoints < 0 {
		return fmt.Errorf("redeemed_points must not be negative (got %d)", r.RedeemedPoints)
	}
	return nil
}
