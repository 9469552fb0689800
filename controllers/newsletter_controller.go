// controllers/newsletter_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mintora/mintora_backend/config"
	"github.com/mintora/mintora_backend/models"
	"github.com/mintora/mintora_backend/utils"
)

type NewsletterController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewNewsletterController(db *mongo.Client) *NewsletterController {
	return &NewsletterController{
		DB:     db,
		logger: log.New(os.Stdout, "[NEWSLETTER] ", log.LstdFlags),
	}
}

// Subscribe adds an email to the newsletter list. Re-subscribing an
// existing address is a no-op success.
func (nc *NewsletterController) Subscribe(c echo.Context) error {
	var req models.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid request format",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid email address",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(nc.DB, "newsletter_subscribers")
	_, err = collection.InsertOne(ctx, models.NewsletterSubscriber{
		Email:        email,
		SubscribedAt: time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusOK, models.Response{OK: true})
		}
		nc.logger.Printf("Error subscribing %s: %v", utils.MaskEmail(email), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to subscribe",
		})
	}

	if err := utils.SendNewsletterWelcomeEmail(email); err != nil {
		nc.logger.Printf("Error sending welcome email to %s: %v", utils.MaskEmail(email), err)
	}

	return c.JSON(http.StatusOK, models.Response{OK: true})
}
