package utils

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	t.Setenv("SIGNUP_ENCRYPTION_KEY", "test-secret")

	plaintext := []byte(`{"email":"a@b.com","otpHash":"abc123"}`)

	encrypted, err := EncryptPayload(plaintext)
	if err != nil {
		t.Fatalf("EncryptPayload failed: %v", err)
	}

	decrypted, err := DecryptPayload(encrypted)
	if err != nil {
		t.Fatalf("DecryptPayload failed: %v", err)
	}

	if !bytes.Equal(plaintext, decrypted) {
		t.Errorf("roundtrip mismatch: got %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptPayloadFormat(t *testing.T) {
	t.Setenv("SIGNUP_ENCRYPTION_KEY", "test-secret")

	encrypted, err := EncryptPayload([]byte("hello"))
	if err != nil {
		t.Fatalf("EncryptPayload failed: %v", err)
	}

	parts := strings.Split(encrypted, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(parts))
	}

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("iv segment is not valid base64: %v", err)
	}
	if len(iv) != 12 {
		t.Errorf("expected 12-byte IV, got %d bytes", len(iv))
	}

	tag, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("tag segment is not valid base64: %v", err)
	}
	if len(tag) != 16 {
		t.Errorf("expected 16-byte tag, got %d bytes", len(tag))
	}
}

func TestDecryptPayloadRejectsTampering(t *testing.T) {
	t.Setenv("SIGNUP_ENCRYPTION_KEY", "test-secret")

	encrypted, err := EncryptPayload([]byte("sensitive payload contents"))
	if err != nil {
		t.Fatalf("EncryptPayload failed: %v", err)
	}

	parts := strings.Split(encrypted, ".")
	for segment := 0; segment < 3; segment++ {
		raw, err := base64.StdEncoding.DecodeString(parts[segment])
		if err != nil {
			t.Fatalf("segment %d not valid base64: %v", segment, err)
		}
		for i := range raw {
			flipped := make([]byte, len(raw))
			copy(flipped, raw)
			flipped[i] ^= 0x01

			tampered := make([]string, 3)
			copy(tampered, parts)
			tampered[segment] = base64.StdEncoding.EncodeToString(flipped)

			if _, err := DecryptPayload(strings.Join(tampered, ".")); err == nil {
				t.Errorf("segment %d byte %d: tampered payload decrypted successfully", segment, i)
			}
		}
	}
}

func TestDecryptPayloadMalformed(t *testing.T) {
	t.Setenv("SIGNUP_ENCRYPTION_KEY", "test-secret")

	cases := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"one segment", "abcd"},
		{"two segments", "abcd.efgh"},
		{"four segments", "a.b.c.d"},
		{"not base64", "!!!.???.***"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecryptPayload(tc.payload); err == nil {
				t.Errorf("expected error for payload %q", tc.payload)
			}
		})
	}
}

func TestEncryptPayloadRequiresKey(t *testing.T) {
	t.Setenv("SIGNUP_ENCRYPTION_KEY", "")

	if _, err := EncryptPayload([]byte("data")); err == nil {
		t.Error("expected error when SIGNUP_ENCRYPTION_KEY is unset")
	}
}

func TestHashSHA256Hex(t *testing.T) {
	// Known vector
	got := HashSHA256Hex("1234")
	want := "03ac674216f3e15c761ee1a5e255f067953623c8b388b4459e13f978d7c846f4"
	if got != want {
		t.Errorf("HashSHA256Hex(1234) = %s, want %s", got, want)
	}
}

func TestConstantTimeEqualHex(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"equal", HashSHA256Hex("1234"), HashSHA256Hex("1234"), true},
		{"different", HashSHA256Hex("1234"), HashSHA256Hex("5678"), false},
		{"different length", "abcd", "abcdef", false},
		{"not hex", "zzzz", "zzzz", false},
		{"empty", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ConstantTimeEqualHex(tc.a, tc.b); got != tc.want {
				t.Errorf("ConstantTimeEqualHex(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
