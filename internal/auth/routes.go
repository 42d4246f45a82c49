package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterRoutes mounts the account endpoints.
func RegisterRoutes(r chi.Router, store *Store, mailer Mailer, log *zap.Logger) {
	r.Post("/api/auth/register", registerHandler(store))
	r.Post("/api/auth/login", loginHandler(store))
	r.Post("/api/auth/forgot-password", forgotPasswordHandler(store, mailer, log))
	r.Post("/api/auth/verify-otp", verifyOTPHandler(store))
	r.Post("/api/auth/reset-password", resetPasswordHandler(store, mailer, log))
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func registerHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			writeMessage(w, http.StatusBadRequest, "All fields are required")
			return
		}
		u, err := store.Register(r.Context(), req.Name, req.Email, req.Password)
		if errors.Is(err, ErrEmailTaken) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Server error during registration")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "User registered successfully",
			"user":    u,
		})
	}
}

func loginHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}
		u, err := store.Login(r.Context(), req.Email, req.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, err.Error())
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Server error during login")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"user":    u,
		})
	}
}

func forgotPasswordHandler(store *Store, mailer Mailer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" {
			writeMessage(w, http.StatusBadRequest, "Email is required")
			return
		}
		if !emailPattern.MatchString(req.Email) {
			writeMessage(w, http.StatusBadRequest, "Please enter a valid email address")
			return
		}
		u, err := store.FindByEmail(r.Context(), req.Email)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Failed to send OTP")
			return
		}
		if u == nil {
			writeMessage(w, http.StatusNotFound, "No account found with this email address")
			return
		}
		code, err := store.IssueOTP(r.Context(), req.Email)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Failed to send OTP")
			return
		}
		if err := mailer.SendOTP(u.Email, u.Name, code); err != nil {
			log.Warn("sending OTP email failed", zap.String("email", u.Email), zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Failed to send OTP email. Please try again.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "OTP sent successfully to your email address",
			"email":   maskEmail(req.Email),
		})
	}
}

func verifyOTPHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
			OTP   string `json:"otp"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" || req.OTP == "" {
			writeMessage(w, http.StatusBadRequest, "Email and OTP are required")
			return
		}
		token, err := store.VerifyOTP(r.Context(), req.Email, req.OTP)
		if errors.Is(err, ErrInvalidOTP) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Server error during OTP verification")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "OTP verified successfully",
			"verified":   true,
			"resetToken": token,
		})
	}
}

func resetPasswordHandler(store *Store, mailer Mailer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token       string `json:"resetToken"`
			NewPassword string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Token == "" || req.NewPassword == "" {
			writeMessage(w, http.StatusBadRequest, "Reset token and new password are required")
			return
		}
		email, err := store.ResetPassword(r.Context(), req.Token, req.NewPassword)
		if errors.Is(err, ErrInvalidToken) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Server error during password reset")
			return
		}
		if u, err := store.FindByEmail(r.Context(), email); err == nil && u != nil {
			if err := mailer.SendResetConfirmation(u.Email, u.Name); err != nil {
				log.Warn("sending confirmation email failed", zap.String("email", u.Email), zap.Error(err))
			}
		}
		writeMessage(w, http.StatusOK, "Password reset successfully. You can now login with your new password.")
	}
}

// maskEmail hides the middle of the local part: "jo***@example.com".
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 2 {
		return email
	}
	return email[:2] + "***" + email[at:]
}
