// handlers/leaderboard_routes.go
package handlers

import (
	"venturelync/middleware"
	"venturelync/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboardService *services.LeaderboardService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/leaderboard", leaderboardService.GetLeaderboard)
}
