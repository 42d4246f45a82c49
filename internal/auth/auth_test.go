package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/etherxppt/deckd/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewStore(d)
}

// captureMailer records the last OTP it was asked to send.
type captureMailer struct {
	lastCode  string
	lastEmail string
}

func (m *captureMailer) SendOTP(email, name, code string) error {
	m.lastEmail = email
	m.lastCode = code
	return nil
}

func (m *captureMailer) SendResetConfirmation(email, name string) error { return nil }

func TestRegisterAndLogin(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	u, err := store.Register(ctx, "Ada", "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == "" {
		t.Error("empty user ID")
	}

	if _, err := store.Register(ctx, "Ada", "ada@example.com", "other"); err != ErrEmailTaken {
		t.Errorf("duplicate register err = %v, want ErrEmailTaken", err)
	}

	got, err := store.Login(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("name = %q", got.Name)
	}

	if _, err := store.Login(ctx, "ada@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := store.Login(ctx, "nobody@example.com", "hunter22"); err != ErrInvalidCredentials {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestOTPResetFlow(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	store.Register(ctx, "Ada", "ada@example.com", "hunter22")

	code, err := store.IssueOTP(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("IssueOTP: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code = %q, want 6 digits", code)
	}

	if _, err := store.VerifyOTP(ctx, "ada@example.com", "000000"); err != ErrInvalidOTP {
		t.Errorf("wrong code err = %v, want ErrInvalidOTP", err)
	}

	token, err := store.VerifyOTP(ctx, "ada@example.com", code)
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}

	// A consumed code must not verify twice.
	if _, err := store.VerifyOTP(ctx, "ada@example.com", code); err != ErrInvalidOTP {
		t.Errorf("reused code err = %v, want ErrInvalidOTP", err)
	}

	if _, err := store.ResetPassword(ctx, token, "newpass99"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := store.Login(ctx, "ada@example.com", "newpass99"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := store.Login(ctx, "ada@example.com", "hunter22"); err != ErrInvalidCredentials {
		t.Errorf("old password still works")
	}

	// Token is single use.
	if _, err := store.ResetPassword(ctx, token, "again"); err != ErrInvalidToken {
		t.Errorf("reused token err = %v, want ErrInvalidToken", err)
	}
}

func TestIssueOTPReplacesOldCode(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	store.Register(ctx, "Ada", "ada@example.com", "hunter22")

	first, _ := store.IssueOTP(ctx, "ada@example.com")
	second, _ := store.IssueOTP(ctx, "ada@example.com")

	if first != second {
		if _, err := store.VerifyOTP(ctx, "ada@example.com", first); err != ErrInvalidOTP {
			t.Errorf("stale code err = %v, want ErrInvalidOTP", err)
		}
	}
	if _, err := store.VerifyOTP(ctx, "ada@example.com", second); err != nil {
		t.Errorf("fresh code: %v", err)
	}
}

func setupTestRouter(t *testing.T) (chi.Router, *captureMailer) {
	t.Helper()
	store := setupTestStore(t)
	mailer := &captureMailer{}
	r := chi.NewRouter()
	RegisterRoutes(r, store, mailer, zap.NewNop())
	return r, mailer
}

func postJSON(t *testing.T, r chi.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)

	rec := postJSON(t, r, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "hunter22",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, r, "/api/auth/register", map[string]string{"name": "Ada"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields status = %d, want 400", rec.Code)
	}
}

func TestForgotPasswordEndpointFlow(t *testing.T) {
	r, mailer := setupTestRouter(t)
	postJSON(t, r, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "hunter22",
	})

	rec := postJSON(t, r, "/api/auth/forgot-password", map[string]string{"email": "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid email status = %d, want 400", rec.Code)
	}

	rec = postJSON(t, r, "/api/auth/forgot-password", map[string]string{"email": "nobody@example.com"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown email status = %d, want 404", rec.Code)
	}

	rec = postJSON(t, r, "/api/auth/forgot-password", map[string]string{"email": "ada@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["email"] != "ad***@example.com" {
		t.Errorf("masked email = %q", resp["email"])
	}
	if mailer.lastCode == "" {
		t.Fatal("no OTP delivered")
	}

	rec = postJSON(t, r, "/api/auth/verify-otp", map[string]string{
		"email": "ada@example.com", "otp": mailer.lastCode,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d: %s", rec.Code, rec.Body.String())
	}
	var verify struct {
		Verified   bool   `json:"verified"`
		ResetToken string `json:"resetToken"`
	}
	json.NewDecoder(rec.Body).Decode(&verify)
	if !verify.Verified || verify.ResetToken == "" {
		t.Fatalf("verify response = %+v", verify)
	}

	rec = postJSON(t, r, "/api/auth/reset-password", map[string]string{
		"resetToken": verify.ResetToken, "newPassword": "newpass99",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "newpass99",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("login after reset status = %d", rec.Code)
	}
}

func TestMaskEmail(t *testing.T) {
	if got := maskEmail("jo@x.co"); got != "jo@x.co" {
		t.Errorf("short local part = %q", got)
	}
	if got := maskEmail("janedoe@example.com"); got != "ja***@example.com" {
		t.Errorf("masked = %q", got)
	}
}
