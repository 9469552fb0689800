// utils/email.go
package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

func smtpDialer() (*gomail.Dialer, string, error) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")

	if smtpHost == "" || smtpPortStr == "" || smtpUser == "" || smtpPass == "" || fromEmail == "" {
		return nil, "", fmt.Errorf("missing SMTP configuration")
	}

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return nil, "", fmt.Errorf("invalid SMTP port: %v", err)
	}

	return gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass), fromEmail, nil
}

func sendHTML(to, subject, body string) error {
	d, fromEmail, err := smtpDialer()
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// SendOTPEmail sends the signup verification code
func SendOTPEmail(email, otp string) error {
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Verify your email</h2>
			<p>Your verification code is:</p>
			<h3 style="background-color: #f0f0f0; padding: 10px; font-size: 24px; letter-spacing: 5px; text-align: center;">%s</h3>
			<p>This code will expire in 10 minutes.</p>
			<p>If you did not create a Mintora account, you can safely ignore this email.</p>
			<p>Thank you,<br>The Mintora Team</p>
		</body>
		</html>
	`, otp)

	return sendHTML(email, "Your verification code", body)
}

// SendPasswordResetEmail sends the password reset link
func SendPasswordResetEmail(email, resetLink string) error {
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Reset Your Password</h2>
			<p>You have requested to reset your password. Click the link below to choose a new one:</p>
			<p><a href="%s">%s</a></p>
			<p>This link will expire in 15 minutes.</p>
			<p>If you did not request a password reset, please ignore this email or contact support if you have concerns.</p>
			<p>Thank you,<br>The Mintora Team</p>
		</body>
		</html>
	`, resetLink, resetLink)

	return sendHTML(email, "Password Reset Request", body)
}

// SendNewsletterWelcomeEmail greets a new newsletter subscriber
func SendNewsletterWelcomeEmail(email string) error {
	body := `
		<html>
		<body>
			<h2>Welcome to the Mintora newsletter</h2>
			<p>You will now receive drops, trending collections and marketplace news.</p>
			<p>Thank you,<br>The Mintora Team</p>
		</body>
		</html>
	`

	return sendHTML(email, "Welcome to Mintora", body)
}
