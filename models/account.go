package models

import (
	"time"
)

// Account is a local snapshot of an identity-provider login record.
// Owned by the identity service; populated here via the account sync
// worker. The recycling program never authenticates against this table,
// it only reads usernames/emails for search and profile backfill.
type Account struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `json:"email,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RemoteAccount mirrors the identity service's JSON for one login.
// Used only by the sync worker.
type RemoteAccount struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
