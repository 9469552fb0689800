// routes/main_routes.go
package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mintora/mintora_backend/controllers"
	ws "github.com/mintora/mintora_backend/websocket"
)

// RegisterMainRoutes sets up health check, newsletter, and the
// websocket activity feed
func RegisterMainRoutes(e *echo.Echo, db *mongo.Client, hub *ws.Hub) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "Mintora Backend is running",
		})
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	newsletterController := controllers.NewNewsletterController(db)
	e.POST("/api/newsletter/subscribe", newsletterController.Subscribe)

	e.GET("/api/ws", ws.HandleWebSocket(hub))
}
