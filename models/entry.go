package models

import (
	"fmt"
	"time"
)

// Entry is one bottle-deposit transaction. Rows are written once and
// never updated; CreatedAt is the deposit time.
type Entry struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	UserProfileID string    `gorm:"index;not null" json:"user_profile_id"`
	NoBottle      int       `gorm:"not null;default:1;check:no_bottle > 0" json:"no_bottle"`
	Points        int       `gorm:"not null;check:points >= 0" json:"points"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (e *Entry) Validate() error {
	if e.NoBottle <= 0 {
		return fmt.Errorf("no_bottle must be positive (got %d)", e.NoBottle)
	}
	if e.Points < 0 {
		return fmt.Errorf("points must not be negative (got %d)", e.Points)
	}
	return nil
}
