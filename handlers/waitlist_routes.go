// handlers/waitlist_routes.go
package handlers

import (
	"venturelync/middleware"
	"venturelync/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWaitlistRoutes(app *fiber.App, waitlistService *services.WaitlistService, progressionService *services.ProgressionService) {
	// 🔓 Public routes — *no user context*, but **still require Gateway auth**
	app.Post("/waitlist", waitlistService.Submit)
	app.Post("/auth/check-invite", waitlistService.CheckInvite)

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Get("/waitlist", waitlistService.AdminList)
	adminGroup.Patch("/waitlist", waitlistService.AdminReview)

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id"`
			XP     int64  `json:"xp"`
			Reason string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.UserID == "" || req.XP <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id and a positive xp amount are required",
			})
		}

		prog, err := progressionService.GrantXP(req.UserID, req.XP, req.Reason)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP grant failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "XP granted successfully",
			"user_id": req.UserID,
			"xp":      prog.XP,
			"level":   prog.Level,
		})
	})
}
