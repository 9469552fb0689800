// controllers/password_controller.go
package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/mintora/mintora_backend/config"
	"github.com/mintora/mintora_backend/models"
	"github.com/mintora/mintora_backend/utils"
)

const resetTokenTTL = 15 * time.Minute

type PasswordController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewPasswordController(db *mongo.Client) *PasswordController {
	return &PasswordController{
		DB:     db,
		logger: log.New(os.Stdout, "[PASSWORD] ", log.LstdFlags),
	}
}

// ForgotPassword issues a reset token for a known account. The response
// is the same whether or not the email exists, so the endpoint can't be
// used to probe for registered addresses.
func (pc *PasswordController) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
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

	userCollection := config.GetCollection(pc.DB, "users")
	var user models.User
	err = userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			pc.logger.Printf("Error looking up user: %v", err)
		}
		return c.JSON(http.StatusOK, models.Response{OK: true})
	}

	token, err := generateResetToken()
	if err != nil {
		pc.logger.Printf("Error generating reset token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to process request",
		})
	}

	_, err = userCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"resetPasswordToken":  utils.HashSHA256Hex(token),
			"resetTokenExpiresAt": time.Now().Add(resetTokenTTL),
			"updatedAt":           time.Now(),
		}},
	)
	if err != nil {
		pc.logger.Printf("Error storing reset token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to process request",
		})
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", frontendURL, token)

	if err := utils.SendPasswordResetEmail(email, resetLink); err != nil {
		pc.logger.Printf("Error sending reset email to %s: %v", utils.MaskEmail(email), err)
	}

	return c.JSON(http.StatusOK, models.Response{OK: true})
}

// ResetPassword consumes a reset token and sets the new password.
func (pc *PasswordController) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid request format",
		})
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userCollection := config.GetCollection(pc.DB, "users")
	var user models.User
	err := userCollection.FindOne(ctx, bson.M{
		"resetPasswordToken":  utils.HashSHA256Hex(req.Token),
		"resetTokenExpiresAt": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid or expired reset token",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		pc.logger.Printf("Error hashing password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to reset password",
		})
	}

	_, err = userCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{
			"$set":   bson.M{"password": string(hashedPassword), "updatedAt": time.Now()},
			"$unset": bson.M{"resetPasswordToken": "", "resetTokenExpiresAt": ""},
		},
	)
	if err != nil {
		pc.logger.Printf("Error updating password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to reset password",
		})
	}

	pc.logger.Printf("Password reset for %s", utils.MaskEmail(user.Email))
	return c.JSON(http.StatusOK, models.Response{OK: true})
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
