package models

import (
	"fmt"
	"time"
)

// UserType distinguishes the three kinds of program members
type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeTeacher UserType = "teacher"
	UserTypeAdmin   UserType = "admin"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeTeacher, UserTypeAdmin:
		return true
	}
	return false
}

// UserProfile extends an identity-provider Account with recycling
// program data. The relation is optional on purpose: accounts can exist
// before their profile does (the fix_qr_codes utility backfills those).
type UserProfile struct {
	ID          string   `gorm:"primaryKey" json:"id"`
	AccountID   string   `gorm:"uniqueIndex;not null" json:"account_id"`
	TotalPoints int      `gorm:"not null;default:0;check:total_points >= 0" json:"total_points"`
	// StudentID holds the ID-card number; defaults to the account's
	// username when backfilled.
	StudentID  *string  `gorm:"uniqueIndex;size:50" json:"student_id,omitempty"`
	// QRCodeData is the legacy identifier scheme, kept for backward
	// compatibility with already-printed QR stickers.
	QRCodeData *string  `gorm:"uniqueIndex;size:100" json:"qr_code_data,omitempty"`
	UserType   UserType `gorm:"size:10;not null;default:'student'" json:"user_type"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Entries     []Entry          `json:"entries,omitempty" gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE"`
	Redemptions []RedeemedPoints `json:"redemptions,omitempty" gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE"`
}

// Validate enforces the boundary rules the DB check constraints mirror.
func (p *UserProfile) Validate() error {
	if p.TotalPoints < 0 {
		return fmt.Errorf("total_points must not be negative (got %d)", p.TotalPoints)
	}
	if !p.UserType.Valid() {
		return fmt.Errorf("invalid user_type %q", p.UserType)
	}
	return nil
}
