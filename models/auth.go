// models/auth.go

package models

import (
	"time"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// PendingSignup is the not-yet-persisted registration request. It lives
// only inside the encrypted pending_signup cookie until the OTP is
// verified; no database record exists for it. The plaintext password is
// acceptable here because the whole payload is sealed with AES-GCM and
// expires after ten minutes.
type PendingSignup struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Username  string    `json:"username"`
	OTPHash   string    `json:"otpHash"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
