// handlers/post_routes.go
package handlers

import (
	"venturelync/middleware"
	"venturelync/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPostRoutes(app *fiber.App, postService *services.PostService) {
	// 🔐 All post/feed surfaces require user context from the Gateway
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/posts", postService.GetPosts)
	secured.Post("/posts", postService.CreatePost)
	secured.Post("/posts/:id/like", postService.ToggleLike)

	secured.Get("/feed", postService.GetFeed)

	secured.Get("/comments", postService.GetComments)
	secured.Post("/comments", postService.CreateComment)
}
