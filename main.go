package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/mintora/mintora_backend/config"
	"github.com/mintora/mintora_backend/middleware"
	"github.com/mintora/mintora_backend/routes"
	"github.com/mintora/mintora_backend/utils"
	"github.com/mintora/mintora_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (optional, for OTP attempt limiting)
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Prepare upload directories
	if err := utils.InitializeStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Create WebSocket hub for the activity feed
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Expire blacklisted tokens in the background
	go middleware.CleanupBlacklist()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(middleware.SecurityHeaders())
	e.Use(rateLimiter.RateLimit())

	// Routes
	routes.RegisterMainRoutes(e, client, wsHub)
	routes.RegisterAuthRoutes(e, client, config.RedisClient)
	routes.RegisterUserRoutes(e, client)
	routes.RegisterNFTRoutes(e, client, wsHub)

	// Serve uploaded media
	e.Static("/uploads", "uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
