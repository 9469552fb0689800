// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// GenerateOTP returns a 4-digit code uniform over 1000-9999
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}

// ValidateOTPAttempts limits verification attempts per pending signup.
// Redis is optional infrastructure; without it the only bound is the
// ten-minute cookie expiry.
func ValidateOTPAttempts(key string, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}

	attempts, err := rdb.Incr(context.Background(), "otp_attempts:"+key).Result()
	if err != nil {
		// Same degraded mode as running without Redis
		log.Printf("Redis error counting OTP attempts, limiter off: %v", err)
		return nil
	}

	// Set expiry if first attempt
	if attempts == 1 {
		rdb.Expire(context.Background(), "otp_attempts:"+key, 1*time.Hour)
	}

	// Limit to 5 attempts per hour
	if attempts > 5 {
		return errors.New("too many OTP attempts")
	}

	return nil
}

// ClearOTPAttempts resets the attempt counter after a successful
// verification so a fresh signup from the same address starts clean
func ClearOTPAttempts(key string, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	rdb.Del(context.Background(), "otp_attempts:"+key)
}
