package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/domodwyer/mailyak/v3"
)

// SMTPSender relays through an SMTP server. Credentials are optional for
// local relays.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func (s *SMTPSender) build(msg Message) *mailyak.MailYak {
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	m := mailyak.New(net.JoinHostPort(s.Host, strconv.Itoa(s.Port)), auth)
	m.To(msg.To)
	m.From(s.From)
	m.FromName(s.FromName)
	m.Subject(msg.Subject)
	m.HTML().Set(msg.HTML)
	if msg.Text != "" {
		m.Plain().Set(msg.Text)
	}
	return m
}

// Send blocks until the server accepts the message or ctx is done. mailyak
// has no context support, so an abandoned send finishes in the background.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	m := s.build(msg)
	done := make(chan error, 1)
	go func() {
		done <- m.Send()
	}()

	select {
	case <-ctx.Done():
		return errors.Join(ErrSendFailed, ctx.Err())
	case err := <-done:
		if err != nil {
			return errors.Join(ErrSendFailed, fmt.Errorf("smtp %s: %w", s.Host, err))
		}
		return nil
	}
}
