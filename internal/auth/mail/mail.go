// Package mail delivers account emails through a pluggable Sender.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	ErrInvalidConfig  = errors.New("mail: invalid config")
	ErrInvalidMessage = errors.New("mail: invalid message")
	ErrSendFailed     = errors.New("mail: send failed")
)

// Message is a single outbound email. HTML is required; Text is optional.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	Tag     string
}

func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.To) == "":
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	case strings.TrimSpace(m.HTML) == "":
		return fmt.Errorf("%w: html body is required", ErrInvalidMessage)
	}
	return nil
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

const (
	ProviderLog      = "log"
	ProviderSMTP     = "smtp"
	ProviderPostmark = "postmark"
)

type Config struct {
	Provider string `env:"MAIL_PROVIDER" envDefault:"log"`
	From     string `env:"MAIL_FROM" envDefault:"no-reply@coursehub.local"`
	FromName string `env:"MAIL_FROM_NAME" envDefault:"CourseHub"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
}

func (c Config) Validate() error {
	if c.From == "" {
		return fmt.Errorf("%w: MAIL_FROM is required", ErrInvalidConfig)
	}
	switch c.Provider {
	case ProviderLog:
	case ProviderSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("%w: SMTP_HOST is required for the smtp provider", ErrInvalidConfig)
		}
	case ProviderPostmark:
		if c.PostmarkServerToken == "" {
			return fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is required for the postmark provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown MAIL_PROVIDER %q", ErrInvalidConfig, c.Provider)
	}
	return nil
}

// New builds the Sender selected by cfg.Provider.
func New(cfg Config, logger *slog.Logger) (Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderSMTP:
		return &SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.From,
			FromName: cfg.FromName,
		}, nil
	case ProviderPostmark:
		return NewPostmarkSender(cfg.PostmarkServerToken, cfg.PostmarkAccountToken, cfg.From), nil
	default:
		return &LogSender{Logger: logger}, nil
	}
}
