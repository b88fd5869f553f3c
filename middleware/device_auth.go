// middleware/device_auth.go
package middleware

import (
	"errors"
	"log"

	"recycle-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DeviceAuthMiddleware resolves the reporting device from its X-API-Key
// header and attaches it to the request context. The key is the bearer
// secret assigned when the device was registered through the console.
func DeviceAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-API-Key header",
			})
		}

		var device models.Device
		if err := db.Where("api_key = ?", key).First(&device).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("🚫 [DEVICE_AUTH] Unknown api key (prefix %.8s…) on %s", key, c.Path())
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "unknown api key",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}

		c.Locals("device", &device)
		return c.Next()
	}
}
