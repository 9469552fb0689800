package utils

import (
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

func TestGenerateOTPRange(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP failed: %v", err)
		}

		if len(otp) != 4 {
			t.Fatalf("expected 4-digit code, got %q", otp)
		}

		n, err := strconv.Atoi(otp)
		if err != nil {
			t.Fatalf("code %q is not numeric", otp)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("code %d out of range [1000, 9999]", n)
		}

		seen[otp] = true
	}

	// A thousand draws from a 9000-value space should not collapse to a
	// handful of values
	if len(seen) < 100 {
		t.Errorf("only %d distinct codes in 1000 draws, generator looks broken", len(seen))
	}
}

func TestValidateOTPAttemptsWithoutRedis(t *testing.T) {
	if err := ValidateOTPAttempts("a@b.com", nil); err != nil {
		t.Errorf("expected nil error without Redis, got %v", err)
	}

	// Must not panic
	ClearOTPAttempts("a@b.com", nil)
}

func TestValidateOTPAttemptsUnreachableRedis(t *testing.T) {
	// Nothing listens here; Incr fails with a transport error
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	// Transport failures degrade to limiter-off, never to a rejection
	if err := ValidateOTPAttempts("a@b.com", rdb); err != nil {
		t.Errorf("expected nil error with unreachable Redis, got %v", err)
	}
}
