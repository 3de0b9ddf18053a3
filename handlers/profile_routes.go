// handlers/profile_routes.go
package handlers

import (
	"venturelync/middleware"
	"venturelync/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/user/profile", profileService.GetProfile)
	secured.Put("/user/profile", profileService.UpdateProfile)
	secured.Post("/user/profile/setup", profileService.SetupProfile)
	secured.Get("/user/profile/check-username", profileService.CheckUsername)
	secured.Get("/user/profile/suggested", profileService.SuggestedUsernames)
	secured.Post("/user/profile/image", profileService.UploadImage)

	secured.Get("/user/progress/badges", profileService.GetBadges)
}
