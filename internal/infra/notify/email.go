// Package notify delivers composed reminders over the configured channels.
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/kestrelworks/studio-announce/internal/service/compose"
)

// EmailSender sends the full email body over SMTP.
type EmailSender struct {
	client *mail.Client
	from   string
	to     []string
}

func NewEmailSender(host string, port int, username, password, from string, to []string) (*EmailSender, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &EmailSender{client: client, from: from, to: to}, nil
}

func (s *EmailSender) Name() string { return "email" }

func (s *EmailSender) Send(ctx context.Context, msg compose.Message) error {
	m := mail.NewMsg()
	if s.from != "" {
		if err := m.From(s.from); err != nil {
			return fmt.Errorf("invalid sender address: %w", err)
		}
	}
	if err := m.To(s.to...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
