package mail

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/coursehub/pkg/slogx"
)

// LogSender writes messages to the log instead of delivering them. Used in
// development, where the links in the log are the only way to complete
// confirmation and reset flows.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	l := s.Logger
	if l == nil {
		l = slogx.FromContext(ctx)
	}
	l.InfoContext(ctx, "email not delivered (log provider)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("tag", msg.Tag),
		slog.String("text", msg.Text),
	)
	return nil
}
