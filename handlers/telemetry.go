// handlers/telemetry.go
package handlers

import (
	"recycle-rewards-system/middleware"
	"recycle-rewards-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupTelemetryRoutes wires the device-facing reporting path. Devices
// authenticate with the api_key assigned at registration.
func SetupTelemetryRoutes(app *fiber.App, db *gorm.DB, telemetry *services.TelemetryService) {
	device := app.Group("/device", middleware.DeviceAuthMiddleware(db))

	device.Post("/report", telemetry.Report)
	device.Post("/heartbeat", telemetry.Heartbeat)
}
