package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ccontapub/accounts-api/internal/core/ports"
)

// LogNotifier records outbound codes in the log instead of delivering
// them. For development environments without an SMTP server.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendConfirmation(_ context.Context, p ports.Notification) error {
	n.log.Info().
		Str("email", p.Email).
		Str("code", p.Token).
		Msg("confirmation code (dev delivery)")
	return nil
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, p ports.Notification) error {
	n.log.Info().
		Str("email", p.Email).
		Str("code", p.Token).
		Msg("password reset code (dev delivery)")
	return nil
}
