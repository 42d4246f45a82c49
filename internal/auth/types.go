// Package auth handles user accounts and password recovery: bcrypt-hashed
// credentials, short-lived email OTP codes, and opaque reset tokens.
package auth

import "time"

// User is a registered account. PasswordHash never leaves the store.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// OTPTTL is how long a one-time code stays valid.
const OTPTTL = 10 * time.Minute

// ResetTokenTTL bounds the window between OTP verification and the actual
// password reset.
const ResetTokenTTL = 15 * time.Minute
