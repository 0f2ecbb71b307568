// Package mailer delivers system-event emails (error reports, snow notices)
// over an SMTP relay with mandatory STARTTLS.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type Mailer struct {
	client    *mail.Client
	appName   string
	sender    string
	recipient string
}

func New(host string, port int, user, pass, appName, sender, recipient string) (*Mailer, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(pass),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}
	return &Mailer{client: client, appName: appName, sender: sender, recipient: recipient}, nil
}

// SendSystemEvent emails the configured system-events recipient.
func (m *Mailer) SendSystemEvent(ctx context.Context, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.appName, m.sender); err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	if err := msg.To(m.recipient); err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	if err := msg.ReplyTo(m.recipient); err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}
