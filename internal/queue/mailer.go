package queue

import (
	"context"

	"github.com/iliyamo/entityhub/internal/mail"
)

// DirectMailer sends reset mail synchronously. The consumer uses it for
// every delivery; the server uses it directly when no broker is configured.
type DirectMailer struct {
	Sender mail.Sender
	From   string
}

func (m DirectMailer) SendResetPasswordEmail(ctx context.Context, to, link string) error {
	return m.Sender.Send(ctx, mail.ResetPasswordMessage(m.From, to, link))
}
