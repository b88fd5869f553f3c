// services/device_service.go
package services

import (
	"errors"
	"log"
	"time"

	"recycle-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type DeviceService struct {
	DB *gorm.DB
}

func NewDeviceService(db *gorm.DB) *DeviceService {
	return &DeviceService{DB: db}
}

var deviceConsole = ConsoleBinding{
	SearchColumns: []string{"device_name", "device_id", "location"},
	FilterColumns: map[string]string{"status": "status"},
	DateColumn:    "created_at",
}

// ListDevices projects the fleet overview columns: name, id, location,
// status, processed count and last heartbeat. The api_key never leaves
// the server.
func (s *DeviceService) ListDevices(c *fiber.Ctx) error {
	type deviceRow struct {
		ID                    string              `json:"id"`
		DeviceName            string              `json:"device_name"`
		DeviceID              string              `json:"device_id"`
		Location              string              `json:"location"`
		Status                models.DeviceStatus `json:"status"`
		TotalBottlesProcessed int                 `json:"total_bottles_processed"`
		LastHeartbeat         *time.Time          `json:"last_heartbeat,omitempty"`
	}

	db := s.DB.Model(&models.Device{}).
		Select("id, device_name, device_id, location, status, total_bottles_processed, last_heartbeat")

	db, err := deviceConsole.Apply(db, c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rows []deviceRow
	if err := db.Scan(&rows).Error; err != nil {
		log.Printf("DB Error listing devices: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list devices"})
	}

	return c.JSON(rows)
}

func (s *DeviceService) GetDevice(c *fiber.Ctx) error {
	var device models.Device
	if err := s.DB.First(&device, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Device not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(device)
}

// CreateDevice registers a new sorting unit. The api_key is generated
// here, after the record is built and before it is persisted; any key
// the client sends is ignored. A blank device_id defaults to a slug of
// the device name.
func (s *DeviceService) CreateDevice(c *fiber.Ctx) error {
	var req struct {
		DeviceID   string               `json:"device_id"`
		DeviceName string               `json:"device_name"`
		Location   string               `json:"location"`
		Status     *models.DeviceStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	device := &models.Device{
		ID:         uuid.NewString(),
		DeviceID:   req.DeviceID,
		DeviceName: req.DeviceName,
		Location:   req.Location,
		Status:     models.DeviceStatusOffline,
	}
	if req.Status != nil {
		device.Status = *req.Status
	}
	if device.DeviceID == "" {
		device.DeviceID = slug.Make(device.DeviceName)
	}
	if err := device.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Key assignment is an explicit creation step, not an on-save hook.
	device.APIKey = uuid.NewString()

	if err := s.DB.Create(device).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "device_id already registered"})
		}
		log.Printf("DB Error creating device: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create device"})
	}

	// The one place the key is shown: the operator copies it into the
	// device firmware config.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"device":  device,
		"api_key": device.APIKey,
	})
}

// UpdateDevice applies admin edits to the mutable fields. The api_key,
// telemetry counters and timestamps are display-only; a request trying
// to change them is rejected before anything is written.
func (s *DeviceService) UpdateDevice(c *fiber.Ctx) error {
	var req struct {
		DeviceID   *string              `json:"device_id"`
		DeviceName *string              `json:"device_name"`
		Location   *string              `json:"location"`
		Status     *models.DeviceStatus `json:"status"`

		APIKey                *string `json:"api_key"`
		TotalBottlesProcessed *int    `json:"total_bottles_processed"`
		LastHeartbeat         *string `json:"last_heartbeat"`
		CreatedAt             *string `json:"created_at"`
		UpdatedAt             *string `json:"updated_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.APIKey != nil || req.TotalBottlesProcessed != nil || req.LastHeartbeat != nil ||
		req.CreatedAt != nil || req.UpdatedAt != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "api_key, total_bottles_processed, last_heartbeat, created_at and updated_at are read-only",
		})
	}

	var device models.Device
	if err := s.DB.First(&device, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Device not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if req.DeviceID != nil {
		device.DeviceID = *req.DeviceID
	}
	if req.DeviceName != nil {
		device.DeviceName = *req.DeviceName
	}
	if req.Location != nil {
		device.Location = *req.Location
	}
	if req.Status != nil {
		device.Status = *req.Status
	}

	if err := device.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Save(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "device_id already registered"})
		}
		log.Printf("DB Error updating device %s: %v", device.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update device"})
	}

	return c.JSON(device)
}

// DeleteDevice removes a unit; its logs cascade with it.
func (s *DeviceService) DeleteDevice(c *fiber.Ctx) error {
	var device models.Device
	if err := s.DB.First(&device, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Device not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Select("Logs").Delete(&device).Error; err != nil {
		log.Printf("DB Error deleting device %s: %v", device.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete device"})
	}

	return c.JSON(fiber.Map{"message": "Device deleted"})
}

// --- Device logs (read-only from the console side) ---

var deviceLogConsole = ConsoleBinding{
	SearchColumns: []string{"devices.device_name", "device_logs.message"},
	FilterColumns: map[string]string{
		"log_type":    "device_logs.log_type",
		"sort_result": "device_logs.sort_result",
		"device":      "device_logs.device_row_id",
	},
	DateColumn: "device_logs.created_at",
}

func (s *DeviceService) ListDeviceLogs(c *fiber.Ctx) error {
	type logRow struct {
		ID         string             `json:"id"`
		DeviceName string             `json:"device_name"`
		LogType    models.LogType     `json:"log_type"`
		SortResult *models.SortResult `json:"sort_result,omitempty"`
		Message    string             `json:"message,omitempty"`
		CreatedAt  time.Time          `json:"created_at"`
	}

	db := s.DB.Model(&models.DeviceLog{}).
		Joins("JOIN devices ON devices.id = device_logs.device_row_id").
		Select("device_logs.id, devices.device_name, device_logs.log_type, device_logs.sort_result, device_logs.message, device_logs.created_at")

	db, err := deviceLogConsole.Apply(db, c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rows []logRow
	if err := db.Scan(&rows).Error; err != nil {
		log.Printf("DB Error listing device logs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list device logs"})
	}

	return c.JSON(rows)
}

func (s *DeviceService) GetDeviceLog(c *fiber.Ctx) error {
	var entry models.DeviceLog
	if err := s.DB.First(&entry, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Device log not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(entry)
}

// RejectLogCreate answers any attempt to create a log row through the
// console. Logs originate from device telemetry only.
func (s *DeviceService) RejectLogCreate(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"error": "device logs are created by device telemetry, not through the console",
	})
}
