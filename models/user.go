// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model. Accounts are only inserted after OTP verification, so
// IsVerified is true from creation onward.
type User struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email               string             `json:"email" bson:"email"`
	Password            string             `json:"password,omitempty" bson:"password"`
	IsVerified          bool               `json:"isVerified" bson:"isVerified"`
	ResetPasswordToken  string             `json:"resetPasswordToken,omitempty" bson:"resetPasswordToken,omitempty"`
	ResetTokenExpiresAt time.Time          `json:"resetTokenExpiresAt,omitempty" bson:"resetTokenExpiresAt,omitempty"`
	LastLoginAt         time.Time          `json:"lastLoginAt,omitempty" bson:"lastLoginAt,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Profile holds the public-facing identity for a user
type Profile struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	Username   string             `json:"username" bson:"username"`
	FullName   string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Bio        string             `json:"bio,omitempty" bson:"bio,omitempty"`
	AvatarURL  string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	IsVerified bool               `json:"isVerified" bson:"isVerified"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Response model. The frontend expects the ok/error envelope on every
// JSON endpoint except verify-otp, which replies with message/error.
type Response struct {
	OK    bool        `json:"ok"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	FullName *string `json:"fullName,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
