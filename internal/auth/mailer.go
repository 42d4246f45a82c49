package auth

import "go.uber.org/zap"

// Mailer delivers account emails. The server runs with LogMailer unless a
// real SMTP transport is wired in.
type Mailer interface {
	SendOTP(email, name, code string) error
	SendResetConfirmation(email, name string) error
}

// LogMailer writes emails to the log instead of sending them. Useful for
// development and tests where no SMTP relay is available.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) SendOTP(email, name, code string) error {
	m.Log.Info("password reset code issued",
		zap.String("email", email),
		zap.String("name", name),
		zap.String("code", code),
	)
	return nil
}

func (m LogMailer) SendResetConfirmation(email, name string) error {
	m.Log.Info("password reset confirmed",
		zap.String("email", email),
		zap.String("name", name),
	)
	return nil
}
