// routes/auth_routes.go
package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mintora/mintora_backend/controllers"
)

// RegisterAuthRoutes sets up all authentication related routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, rdb *redis.Client) {
	authController := controllers.NewAuthController(db, rdb)
	passwordController := controllers.NewPasswordController(db)

	auth := e.Group("/api/auth")
	auth.POST("/signup", authController.Signup)
	auth.POST("/verify-otp", authController.VerifyOTP)
	auth.POST("/resend-otp", authController.ResendOTP)
	auth.POST("/login", authController.Login)
	auth.POST("/logout", authController.Logout)
	auth.POST("/refresh", authController.RefreshToken)
	auth.POST("/forgot-password", passwordController.ForgotPassword)
	auth.POST("/reset-password", passwordController.ResetPassword)
}
