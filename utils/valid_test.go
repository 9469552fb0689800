package utils

import "testing"

func TestSanitizeEmail(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "user@example.com", "user@example.com", false},
		{"uppercase normalized", "User@Example.COM", "user@example.com", false},
		{"surrounding spaces", "  user@example.com  ", "user@example.com", false},
		{"missing at", "userexample.com", "", true},
		{"missing tld", "user@example", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SanitizeEmail(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("SanitizeEmail(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "alice_99", false},
		{"minimum length", "abc", false},
		{"maximum length", "abcdefghij0123456789", false},
		{"too short", "ab", true},
		{"too long", "abcdefghij0123456789x", true},
		{"spaces", "alice smith", true},
		{"special characters", "alice!", true},
		{"empty", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.username)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for %q", tc.username)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tc.username, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); err == nil {
		t.Error("expected error for 5-character password")
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Errorf("unexpected error for 6-character password: %v", err)
	}
}

func TestIsValidOTPFormat(t *testing.T) {
	cases := []struct {
		otp  string
		want bool
	}{
		{"1234", true},
		{"0000", true},
		{"9999", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
		{" 1234", false},
	}

	for _, tc := range cases {
		if got := IsValidOTPFormat(tc.otp); got != tc.want {
			t.Errorf("IsValidOTPFormat(%q) = %v, want %v", tc.otp, got, tc.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello world", "hello world"},
		{"trims spaces", "  hello  ", "hello"},
		{"escapes html", "<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{"strips control chars", "hel\x00lo", "hello"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeInput(tc.input); got != tc.want {
				t.Errorf("SanitizeInput(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "al***@example.com"},
		{"ab@example.com", "a***@example.com"},
		{"not-an-email", "not-an-email"},
	}

	for _, tc := range cases {
		if got := MaskEmail(tc.email); got != tc.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}
