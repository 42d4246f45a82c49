package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/etherxppt/deckd/internal/db"
)

var (
	// ErrInvalidCredentials covers both unknown emails and wrong passwords
	// so login responses don't reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an address that exists.
	ErrEmailTaken = errors.New("user already exists with this email")
	// ErrInvalidOTP covers missing, expired, and mismatched codes.
	ErrInvalidOTP = errors.New("invalid or expired OTP")
	// ErrInvalidToken covers missing and expired reset tokens.
	ErrInvalidToken = errors.New("invalid or expired reset token")
)

// Store provides account operations backed by SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a new auth store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Store) Register(ctx context.Context, name, email, password string) (*User, error) {
	if existing, err := s.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, string(hash), u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// Login checks the password against the stored hash.
func (s *Store) Login(ctx context.Context, email, password string) (*User, error) {
	var (
		u    User
		hash string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &hash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// FindByEmail returns the user for an address, or nil when none exists.
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return &u, nil
}

// IssueOTP stores a fresh 6-digit code for the address, replacing any
// outstanding codes, and returns it for delivery.
func (s *Store) IssueOTP(ctx context.Context, email string) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", err
	}
	expires := time.Now().UTC().Add(OTPTTL)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE email = ?`, email); err != nil {
		return "", fmt.Errorf("clearing old codes: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO otp_codes (email, code, expires_at) VALUES (?, ?, ?)`,
		email, code, expires,
	)
	if err != nil {
		return "", fmt.Errorf("storing OTP: %w", err)
	}
	return code, nil
}

// VerifyOTP consumes a code and returns a reset token good for the actual
// password change.
func (s *Store) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	var expires time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT expires_at FROM otp_codes WHERE email = ? AND code = ? AND consumed = 0`,
		email, code,
	).Scan(&expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidOTP
	}
	if err != nil {
		return "", fmt.Errorf("loading OTP: %w", err)
	}
	if time.Now().UTC().After(expires) {
		s.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE email = ?`, email)
		return "", ErrInvalidOTP
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE otp_codes SET consumed = 1 WHERE email = ? AND code = ?`, email, code,
	); err != nil {
		return "", fmt.Errorf("consuming OTP: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reset_tokens (token, email, expires_at) VALUES (?, ?, ?)`,
		token, email, time.Now().UTC().Add(ResetTokenTTL),
	)
	if err != nil {
		return "", fmt.Errorf("storing reset token: %w", err)
	}
	return token, nil
}

// ResetPassword validates the token and replaces the password hash.
func (s *Store) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var (
		email   string
		expires time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT email, expires_at FROM reset_tokens WHERE token = ?`, token,
	).Scan(&email, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("loading reset token: %w", err)
	}
	if time.Now().UTC().After(expires) {
		s.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE token = ?`, token)
		return "", ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE email = ?`, string(hash), email,
	)
	if err != nil {
		return "", fmt.Errorf("updating password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", sql.ErrNoRows
	}

	s.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE token = ?`, token)
	s.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE email = ?`, email)
	return email, nil
}

// generateOTP picks a uniform 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generating OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
