package models

import (
	"fmt"
	"time"
)

// LogType classifies a telemetry record from a sorting unit
type LogType string

const (
	LogTypeBottleDetected LogType = "bottle_detected"
	LogTypeBottleSorted   LogType = "bottle_sorted"
	LogTypeError          LogType = "error"
	LogTypeMaintenance    LogType = "maintenance"
	LogTypeHeartbeat      LogType = "heartbeat"
)

func (t LogType) Valid() bool {
	switch t {
	case LogTypeBottleDetected, LogTypeBottleSorted, LogTypeError, LogTypeMaintenance, LogTypeHeartbeat:
		return true
	}
	return false
}

// SortResult is the outcome of one sort attempt
type SortResult string

const (
	SortResultPlastic SortResult = "plastic"
	SortResultInvalid SortResult = "invalid"
	SortResultError   SortResult = "error"
)

func (r SortResult) Valid() bool {
	switch r {
	case SortResultPlastic, SortResultInvalid, SortResultError:
		return true
	}
	return false
}

// DeviceLog is one append-only telemetry record. Rows originate only
// from the device reporting path; the console never creates them.
type DeviceLog struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	DeviceRowID string  `gorm:"index;not null" json:"device_row_id"`
	LogType     LogType `gorm:"size:20;not null" json:"log_type"`
	// SortResult is set only on bottle_sorted records.
	SortResult *SortResult `gorm:"size:10" json:"sort_result,omitempty"`
	// SensorData carries raw IR/capacitive sensor readings as reported.
	SensorData map[string]float64 `gorm:"serializer:json" json:"sensor_data,omitempty"`
	Message    string             `gorm:"type:text" json:"message,omitempty"`
	CreatedAt  time.Time          `json:"created_at" gorm:"autoCreateTime"`
}

func (l *DeviceLog) Validate() error {
	if !l.LogType.Valid() {
		return fmt.Errorf("invalid log_type %q", l.LogType)
	}
	if l.SortResult != nil && !l.SortResult.Valid() {
		return fmt.Errorf("invalid sort_result %q", *l.SortResult)
	}
	return nil
}
