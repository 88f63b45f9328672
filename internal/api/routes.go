package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edouard-claude/printmeter/internal/display"
)

// RegisterRoutes mounts the read-only tracking endpoints on r.
func RegisterRoutes(r fiber.Router, src display.InfoSource) {
	r.Get("/trackingInformation", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"trackingInformation": display.BuildInformation(src)})
	})
}
