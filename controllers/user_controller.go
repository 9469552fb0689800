// controllers/user_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/mintora/mintora_backend/config"
	"github.com/mintora/mintora_backend/middleware"
	"github.com/mintora/mintora_backend/models"
	"github.com/mintora/mintora_backend/repositories"
	"github.com/mintora/mintora_backend/utils"
)

type UserController struct {
	DB       *mongo.Client
	profiles *repositories.ProfileRepository
	logger   *log.Logger
}

func NewUserController(db *mongo.Client) *UserController {
	return &UserController{
		DB:       db,
		profiles: repositories.NewProfileRepository(db),
		logger:   log.New(os.Stdout, "[USER] ", log.LstdFlags),
	}
}

// Me returns the authenticated user with their profile.
func (uc *UserController) Me(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Unauthorized",
		})
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userCollection := config.GetCollection(uc.DB, "users")
	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			OK:    false,
			Error: "User not found",
		})
	}
	user.Password = ""

	data := map[string]interface{}{"user": user}
	if profile, err := uc.profiles.FindByUserID(ctx, objID); err == nil {
		data["profile"] = profile
	}

	return c.JSON(http.StatusOK, models.Response{OK: true, Data: data})
}

// GetProfile returns a public profile by username.
func (uc *UserController) GetProfile(c echo.Context) error {
	username := utils.SanitizeInput(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Username is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := uc.profiles.FindByUsername(ctx, username)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			OK:    false,
			Error: "Profile not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{OK: true, Data: profile})
}

// UpdateProfile patches the caller's profile. Username changes go
// through the same uniqueness check as signup.
func (uc *UserController) UpdateProfile(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Unauthorized",
		})
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid user ID",
		})
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid request format",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Username != nil {
		username := utils.SanitizeInput(*req.Username)
		if err := utils.ValidateUsername(username); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				OK:    false,
				Error: err.Error(),
			})
		}
		update["username"] = username
	}
	if req.FullName != nil {
		update["fullName"] = utils.SanitizeInput(*req.FullName)
	}
	if req.Bio != nil {
		update["bio"] = utils.SanitizeInput(*req.Bio)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profileCollection := config.GetCollection(uc.DB, "profiles")
	_, err = profileCollection.UpdateOne(ctx,
		bson.M{"userId": objID},
		bson.M{"$set": update},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				OK:    false,
				Error: "Username is already taken",
			})
		}
		uc.logger.Printf("Error updating profile: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to update profile",
		})
	}

	profile, err := uc.profiles.FindByUserID(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			OK:    false,
			Error: "Profile not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{OK: true, Data: profile})
}

// ChangePassword verifies the current password before setting the new
// one.
func (uc *UserController) ChangePassword(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Unauthorized",
		})
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid user ID",
		})
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
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

	userCollection := config.GetCollection(uc.DB, "users")
	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			OK:    false,
			Error: "User not found",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Current password is incorrect",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Printf("Error hashing password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to change password",
		})
	}

	_, err = userCollection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"password": string(hashedPassword), "updatedAt": time.Now()}},
	)
	if err != nil {
		uc.logger.Printf("Error updating password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to change password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{OK: true})
}

// UploadAvatar stores a profile picture and updates the profile.
func (uc *UserController) UploadAvatar(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Unauthorized",
		})
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid user ID",
		})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Avatar file is required",
		})
	}

	avatarURL, err := utils.SaveAvatar(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.profiles.UpdateAvatar(ctx, objID, avatarURL); err != nil {
		uc.logger.Printf("Error updating avatar: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to update avatar",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		OK:   true,
		Data: map[string]string{"avatarUrl": avatarURL},
	})
}
