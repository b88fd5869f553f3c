// services/telemetry_service.go
package services

import (
	"log"
	"time"

	"recycle-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TelemetryService is the device-facing write path: each report is one
// DeviceLog insert plus a heartbeat touch on the device row.
type TelemetryService struct {
	DB *gorm.DB
}

func NewTelemetryService(db *gorm.DB) *TelemetryService {
	return &TelemetryService{DB: db}
}

// Report handles a telemetry event from an authenticated device.
func (s *TelemetryService) Report(c *fiber.Ctx) error {
	device := c.Locals("device").(*models.Device)

	var req struct {
		LogType    models.LogType     `json:"log_type"`
		SortResult *models.SortResult `json:"sort_result"`
		SensorData map[string]float64 `json:"sensor_data"`
		Message    string             `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	entry := &models.DeviceLog{
		ID:          uuid.NewString(),
		DeviceRowID: device.ID,
		LogType:     req.LogType,
		SortResult:  req.SortResult,
		SensorData:  req.SensorData,
		Message:     req.Message,
	}
	if err := entry.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now()
	device.LastHeartbeat = &now
	if entry.LogType == models.LogTypeBottleSorted && entry.SortResult != nil && *entry.SortResult == models.SortResultPlastic {
		device.TotalBottlesProcessed++
	}

	if err := s.DB.Create(entry).Error; err != nil {
		log.Printf("DB Error writing device log for %s: %v", device.DeviceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record telemetry"})
	}
	if err := s.DB.Save(device).Error; err != nil {
		log.Printf("DB Error touching device %s: %v", device.DeviceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update device"})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Heartbeat updates the device status and heartbeat timestamp and
// appends a heartbeat log row.
func (s *TelemetryService) Heartbeat(c *fiber.Ctx) error {
	device := c.Locals("device").(*models.Device)

	var req struct {
		Status models.DeviceStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Status == "" {
		req.Status = models.DeviceStatusOnline
	}
	if !req.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status"})
	}

	now := time.Now()
	device.Status = req.Status
	device.LastHeartbeat = &now

	if err := s.DB.Save(device).Error; err != nil {
		log.Printf("DB Error on heartbeat for %s: %v", device.DeviceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update device"})
	}

	entry := &models.DeviceLog{
		ID:          uuid.NewString(),
		DeviceRowID: device.ID,
		LogType:     models.LogTypeHeartbeat,
	}
	if err := s.DB.Create(entry).Error; err != nil {
		log.Printf("DB Error writing heartbeat log for %s: %v", device.DeviceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record heartbeat"})
	}

	return c.JSON(fiber.Map{"status": device.Status, "last_heartbeat": device.LastHeartbeat})
}
