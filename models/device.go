package models

import (
	"fmt"
	"time"
)

// DeviceStatus is the reported health of a sorting unit
type DeviceStatus string

const (
	DeviceStatusOnline      DeviceStatus = "online"
	DeviceStatusOffline     DeviceStatus = "offline"
	DeviceStatusMaintenance DeviceStatus = "maintenance"
	DeviceStatusError       DeviceStatus = "error"
)

func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusOnline, DeviceStatusOffline, DeviceStatusMaintenance, DeviceStatusError:
		return true
	}
	return false
}

// Device is one physical bottle-sorting unit on campus. The APIKey is
// the bearer secret its firmware reports with; it is generated by the
// console at creation and never editable afterwards.
type Device struct {
	ID         string       `gorm:"primaryKey" json:"id"`
	DeviceID   string       `gorm:"uniqueIndex;size:50;not null" json:"device_id"`
	DeviceName string       `gorm:"size:100;not null" json:"device_name"`
	Location   string       `gorm:"size:200" json:"location"`
	APIKey     string       `gorm:"uniqueIndex;size:100;not null" json:"-"`
	Status     DeviceStatus `gorm:"size:20;not null;default:'offline'" json:"status"`

	LastHeartbeat         *time.Time `json:"last_heartbeat,omitempty"`
	TotalBottlesProcessed int        `gorm:"not null;default:0;check:total_bottles_processed >= 0" json:"total_bottles_processed"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Logs []DeviceLog `json:"-" gorm:"foreignKey:DeviceRowID;constraint:OnDelete:CASCADE"`
}

func (d *Device) Validate() error {
	if d.DeviceName == "" {
		return fmt.Errorf("device_name is required")
	}
	if !d.Status.Valid() {
		return fmt.Errorf("invalid device status %q", d.Status)
	}
	if d.TotalBottlesProcessed < 0 {
		return fmt.Errorf("total_bottles_processed must not be negative (got %d)", d.TotalBottlesProcessed)
	}
	return nil
}
