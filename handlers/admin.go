// handlers/admin.go
package handlers

import (
	"recycle-rewards-system/middleware"
	"recycle-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the per-entity console screens. Everything
// under /admin requires the gateway bearer token.
func SetupAdminRoutes(
	app *fiber.App,
	profiles *services.ProfileService,
	entries *services.EntryService,
	rewards *services.RewardService,
	redemptions *services.RedemptionService,
	devices *services.DeviceService,
) {
	admin := app.Group("/admin", middleware.ConsoleAuthMiddleware())

	admin.Get("/profiles", profiles.ListProfiles)
	admin.Get("/profiles/:id", profiles.GetProfile)
	admin.Patch("/profiles/:id", profiles.UpdateProfile)
	admin.Delete("/profiles/:id", profiles.DeleteProfile)

	// Entries and redemptions are immutable once written: no update route.
	admin.Get("/entries", entries.ListEntries)
	admin.Post("/entries", entries.CreateEntry)
	admin.Get("/entries/:id", entries.GetEntry)
	admin.Delete("/entries/:id", entries.DeleteEntry)

	admin.Get("/rewards", rewards.ListRewardItems)
	admin.Post("/rewards", rewards.CreateRewardItem)
	admin.Get("/rewards/:id", rewards.GetRewardItem)
	admin.Patch("/rewards/:id", rewards.UpdateRewardItem)
	admin.Delete("/rewards/:id", rewards.DeleteRewardItem)
	admin.Post("/rewards/:id/image", rewards.UploadRewardImage)

	admin.Get("/redemptions", redemptions.ListRedemptions)
	admin.Post("/redemptions", redemptions.CreateRedemption)
	admin.Get("/redemptions/:id", redemptions.GetRedemption)
	admin.Delete("/redemptions/:id", redemptions.DeleteRedemption)

	admin.Get("/devices", devices.ListDevices)
	admin.Post("/devices", devices.CreateDevice)
	admin.Get("/devices/:id", devices.GetDevice)
	admin.Patch("/devices/:id", devices.UpdateDevice)
	admin.Delete("/devices/:id", devices.DeleteDevice)

	// Logs are read-only here; creation is answered with an explicit
	// rejection rather than a 404 so the restriction is visible.
	admin.Get("/device-logs", devices.ListDeviceLogs)
	admin.Post("/device-logs", devices.RejectLogCreate)
	admin.Get("/device-logs/:id", devices.GetDeviceLog)
}
