// routes/user_routes.go
package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mintora/mintora_backend/controllers"
	"github.com/mintora/mintora_backend/middleware"
)

// RegisterUserRoutes sets up profile and account routes
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client) {
	userController := controllers.NewUserController(db)

	e.GET("/api/me", userController.Me, middleware.JWTMiddleware())
	e.GET("/api/profiles/:username", userController.GetProfile)

	profile := e.Group("/api/profile", middleware.JWTMiddleware())
	profile.PATCH("", userController.UpdateProfile)
	profile.PUT("/password", userController.ChangePassword)
	profile.POST("/avatar", userController.UploadAvatar)
}
