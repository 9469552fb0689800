// controllers/auth_controller.go
package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/mintora/mintora_backend/config"
	"github.com/mintora/mintora_backend/middleware"
	"github.com/mintora/mintora_backend/models"
	"github.com/mintora/mintora_backend/utils"
)

const (
	pendingSignupCookie = "pending_signup"
	pendingSignupTTL    = 10 * time.Minute
)

type AuthController struct {
	DB     *mongo.Client
	Redis  *redis.Client
	logger *log.Logger
}

func NewAuthController(db *mongo.Client, rdb *redis.Client) *AuthController {
	return &AuthController{
		DB:     db,
		Redis:  rdb,
		logger: log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Signup validates the registration request, checks email and username
// uniqueness, then parks the whole request in an encrypted cookie and
// emails a 4-digit code. No account record exists until the code is
// verified, so abandoned signups never pollute the users collection.
func (ac *AuthController) Signup(c echo.Context) error {
	var req models.SignupRequest
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

	username := utils.SanitizeInput(req.Username)
	if err := utils.ValidateUsername(username); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: err.Error(),
		})
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userCollection := config.GetCollection(ac.DB, "users")
	var existingUser models.User
	err = userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existingUser)
	if err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			OK:    false,
			Error: "An account with this email already exists",
		})
	}
	if err != mongo.ErrNoDocuments {
		ac.logger.Printf("Error checking email uniqueness: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to process signup",
		})
	}

	profileCollection := config.GetCollection(ac.DB, "profiles")
	var existingProfile models.Profile
	err = profileCollection.FindOne(ctx, bson.M{"username": username}).Decode(&existingProfile)
	if err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			OK:    false,
			Error: "Username is already taken",
		})
	}
	if err != mongo.ErrNoDocuments {
		ac.logger.Printf("Error checking username uniqueness: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to process signup",
		})
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		ac.logger.Printf("Error generating OTP: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to process signup",
		})
	}

	pending := models.PendingSignup{
		Email:     email,
		Password:  req.Password,
		Username:  username,
		OTPHash:   utils.HashSHA256Hex(otp),
		ExpiresAt: time.Now().Add(pendingSignupTTL),
	}

	payload, err := json.Marshal(pending)
	if err != nil {
		ac.logger.Printf("Error marshaling pending signup: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to process signup",
		})
	}

	encrypted, err := utils.EncryptPayload(payload)
	if err != nil {
		ac.logger.Printf("Error encrypting pending signup: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to process signup",
		})
	}

	setPendingSignupCookie(c, encrypted)

	if err := utils.SendOTPEmail(email, otp); err != nil {
		ac.logger.Printf("Error sending OTP email to %s: %v", utils.MaskEmail(email), err)
		return c.JSON(http.StatusBadGateway, models.Response{
			OK:    false,
			Error: "Failed to send verification email. Please try again.",
		})
	}

	ac.logger.Printf("Signup initiated for %s", utils.MaskEmail(email))
	return c.JSON(http.StatusOK, models.Response{OK: true})
}

// VerifyOTP consumes the pending_signup cookie. On a correct code it
// creates the user and profile; a wrong code keeps the cookie so the
// user can retry until the ten minutes run out.
//
// Responses here are bare message/error objects rather than the usual
// envelope, matching what the verification page consumes.
func (ac *AuthController) VerifyOTP(c echo.Context) error {
	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	if !utils.IsValidOTPFormat(req.OTP) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "OTP must be 4 digits",
		})
	}

	cookie, err := c.Cookie(pendingSignupCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "No pending signup. Please sign up again.",
		})
	}

	decrypted, err := utils.DecryptPayload(cookie.Value)
	if err != nil {
		ac.logger.Printf("Error decrypting pending signup cookie: %v", err)
		clearPendingSignupCookie(c)
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Signup session is invalid. Please sign up again.",
		})
	}

	var pending models.PendingSignup
	if err := json.Unmarshal(decrypted, &pending); err != nil {
		ac.logger.Printf("Error unmarshaling pending signup: %v", err)
		clearPendingSignupCookie(c)
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Signup session is invalid. Please sign up again.",
		})
	}

	// Server clock only; the client never gets a say on expiry
	if time.Now().After(pending.ExpiresAt) {
		clearPendingSignupCookie(c)
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "OTP expired. Please sign up again.",
		})
	}

	if err := utils.ValidateOTPAttempts(pending.Email, ac.Redis); err != nil {
		return c.JSON(http.StatusTooManyRequests, map[string]string{
			"error": "Too many verification attempts. Please try again later.",
		})
	}

	if !utils.ConstantTimeEqualHex(utils.HashSHA256Hex(req.OTP), pending.OTPHash) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid OTP",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(pending.Password), bcrypt.DefaultCost)
	if err != nil {
		ac.logger.Printf("Error hashing password: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create account",
		})
	}

	now := time.Now()
	user := models.User{
		Email:      pending.Email,
		Password:   string(hashedPassword),
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	userCollection := config.GetCollection(ac.DB, "users")
	result, err := userCollection.InsertOne(ctx, user)
	if err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			ac.logger.Printf("Error creating user: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to create account",
			})
		}
		// A concurrent verification already created the account.
		// Recover by looking it up instead of surfacing a conflict.
		err = userCollection.FindOne(ctx, bson.M{"email": pending.Email}).Decode(&user)
		if err != nil {
			ac.logger.Printf("Error recovering existing user %s: %v", utils.MaskEmail(pending.Email), err)
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "An account with this email already exists",
			})
		}
	} else {
		user.ID = result.InsertedID.(primitive.ObjectID)
	}

	if err := ac.ensureProfile(ctx, &user, pending.Username); err != nil {
		ac.logger.Printf("Error ensuring profile for %s: %v", utils.MaskEmail(pending.Email), err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create account",
		})
	}

	utils.ClearOTPAttempts(pending.Email, ac.Redis)
	clearPendingSignupCookie(c)

	ac.logger.Printf("Email verified for %s", utils.MaskEmail(pending.Email))
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Email verified successfully!",
	})
}

// ensureProfile inserts the profile row for a fresh account, or just
// flips the verified flag when a concurrent verification won the insert
// race.
func (ac *AuthController) ensureProfile(ctx context.Context, user *models.User, username string) error {
	profileCollection := config.GetCollection(ac.DB, "profiles")

	now := time.Now()
	profile := models.Profile{
		UserID:     user.ID,
		Username:   username,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := profileCollection.InsertOne(ctx, profile)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	_, err = profileCollection.UpdateOne(ctx,
		bson.M{"userId": user.ID},
		bson.M{"$set": bson.M{"isVerified": true, "updatedAt": now}},
	)
	return err
}

// ResendOTP re-issues a code for an in-flight signup. The pending
// cookie is re-encrypted with the new hash but keeps its original
// expiry, so resending never extends the window.
func (ac *AuthController) ResendOTP(c echo.Context) error {
	cookie, err := c.Cookie(pendingSignupCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "No pending signup. Please sign up again.",
		})
	}

	decrypted, err := utils.DecryptPayload(cookie.Value)
	if err != nil {
		clearPendingSignupCookie(c)
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Signup session is invalid. Please sign up again.",
		})
	}

	var pending models.PendingSignup
	if err := json.Unmarshal(decrypted, &pending); err != nil {
		clearPendingSignupCookie(c)
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Signup session is invalid. Please sign up again.",
		})
	}

	if time.Now().After(pending.ExpiresAt) {
		clearPendingSignupCookie(c)
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "OTP expired. Please sign up again.",
		})
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		ac.logger.Printf("Error generating OTP: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to resend code",
		})
	}

	pending.OTPHash = utils.HashSHA256Hex(otp)

	payload, err := json.Marshal(pending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to resend code",
		})
	}

	encrypted, err := utils.EncryptPayload(payload)
	if err != nil {
		ac.logger.Printf("Error encrypting pending signup: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to resend code",
		})
	}

	// Remaining lifetime of the original window
	maxAge := int(time.Until(pending.ExpiresAt).Seconds())
	c.SetCookie(&http.Cookie{
		Name:     pendingSignupCookie,
		Value:    encrypted,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	})

	if err := utils.SendOTPEmail(pending.Email, otp); err != nil {
		ac.logger.Printf("Error resending OTP email to %s: %v", utils.MaskEmail(pending.Email), err)
		return c.JSON(http.StatusBadGateway, models.Response{
			OK:    false,
			Error: "Failed to send verification email. Please try again.",
		})
	}

	return c.JSON(http.StatusOK, models.Response{OK: true})
}

// Login authenticates against the users collection and hands out an
// access/refresh token pair.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
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

	userCollection := config.GetCollection(ac.DB, "users")
	var user models.User
	err = userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			OK:    false,
			Error: "You don't have an account. Sign up",
		})
	}
	if err != nil {
		ac.logger.Printf("Error looking up user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Login failed",
		})
	}

	if !user.IsVerified {
		return c.JSON(http.StatusForbidden, models.Response{
			OK:    false,
			Error: "You're not signed up yet. Go to signup.",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Invalid email or password",
		})
	}

	profileCollection := config.GetCollection(ac.DB, "profiles")
	var profile models.Profile
	username := ""
	if err := profileCollection.FindOne(ctx, bson.M{"userId": user.ID}).Decode(&profile); err == nil {
		username = profile.Username
	}

	accessToken, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, username)
	if err != nil {
		ac.logger.Printf("Error generating tokens: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Login failed",
		})
	}

	if _, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"lastLoginAt": time.Now()}},
	); err != nil {
		ac.logger.Printf("Error updating last login time: %v", err)
	}

	ac.logger.Printf("Login for %s", utils.MaskEmail(email))
	return c.JSON(http.StatusOK, models.Response{
		OK: true,
		Data: map[string]interface{}{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user": map[string]interface{}{
				"id":       user.ID.Hex(),
				"email":    user.Email,
				"username": username,
			},
		},
	})
}

// Logout blacklists the presented token until its natural expiry.
func (ac *AuthController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token := authHeader[7:]
		claims, err := middleware.ParseToken(token)
		if err == nil {
			middleware.BlacklistToken(token, time.Unix(claims.ExpiresAt, 0))
		}
	}

	return c.JSON(http.StatusOK, models.Response{OK: true})
}

// RefreshToken exchanges a valid refresh token for a new pair.
func (ac *AuthController) RefreshToken(c echo.Context) error {
	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Refresh token is required",
		})
	}

	if middleware.IsTokenBlacklisted(req.RefreshToken) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Invalid refresh token",
		})
	}

	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Invalid refresh token",
		})
	}

	accessToken, refreshToken, err := middleware.GenerateJWT(claims.UserID, claims.Email, claims.Username)
	if err != nil {
		ac.logger.Printf("Error refreshing tokens: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to refresh token",
		})
	}

	// The old refresh token is single use
	middleware.BlacklistToken(req.RefreshToken, time.Unix(claims.ExpiresAt, 0))

	return c.JSON(http.StatusOK, models.Response{
		OK: true,
		Data: map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
	})
}

func setPendingSignupCookie(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     pendingSignupCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(pendingSignupTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	})
}

func clearPendingSignupCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     pendingSignupCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("ENV") == "production",
	})
}
