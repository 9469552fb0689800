// utils/crypto.go
package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const gcmTagSize = 16

// getSignupKey derives a 32-byte AES key from the server secret. Any
// secret length is accepted, the hash normalizes it.
func getSignupKey() ([]byte, error) {
	secret := os.Getenv("SIGNUP_ENCRYPTION_KEY")
	if secret == "" {
		return nil, errors.New("SIGNUP_ENCRYPTION_KEY environment variable is required")
	}
	key := sha256.Sum256([]byte(secret))
	return key[:], nil
}

// EncryptPayload seals plaintext with AES-256-GCM and returns the cookie
// wire format "ivBase64.tagBase64.ciphertextBase64".
func EncryptPayload(plaintext []byte) (string, error) {
	key, err := getSignupKey()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	iv := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	// Seal appends the auth tag after the ciphertext; the wire format
	// carries it as a separate segment
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ciphertext := sealed[:len(sealed)-gcmTagSize]
	tag := sealed[len(sealed)-gcmTagSize:]

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(iv),
		base64.StdEncoding.EncodeToString(tag),
		base64.StdEncoding.EncodeToString(ciphertext),
	}, "."), nil
}

// DecryptPayload opens a payload produced by EncryptPayload. Any
// tampering with any segment fails authentication.
func DecryptPayload(payload string) ([]byte, error) {
	key, err := getSignupKey()
	if err != nil {
		return nil, err
	}

	parts := strings.Split(payload, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid payload format")
	}

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid payload encoding: %v", err)
	}
	tag, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid payload encoding: %v", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid payload encoding: %v", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(iv) != gcm.NonceSize() || len(tag) != gcmTagSize {
		return nil, errors.New("invalid payload format")
	}

	plaintext, err := gcm.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return nil, errors.New("payload authentication failed")
	}

	return plaintext, nil
}

// HashSHA256Hex returns the lowercase hex SHA-256 of value
func HashSHA256Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// ConstantTimeEqualHex compares two hex digests without leaking timing
// information. Short numeric codes are guessable, so a plain string
// compare is not acceptable here.
func ConstantTimeEqualHex(aHex, bHex string) bool {
	a, err := hex.DecodeString(aHex)
	if err != nil {
		return false
	}
	b, err := hex.DecodeString(bHex)
	if err != nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
