package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLink = "https://app.example.com/confirm-email?token=abc%2Bdef&email=a@example.com"

func TestConfirmationEmail(t *testing.T) {
	t.Parallel()

	msg, err := ConfirmationEmail("a@example.com", "Alice <admin>", "CourseHub", testLink)
	require.NoError(t, err)
	require.NoError(t, msg.Validate())

	assert.Equal(t, TagConfirmation, msg.Tag)
	assert.Contains(t, msg.Subject, "CourseHub")
	assert.Contains(t, msg.HTML, `href="https://app.example.com/confirm-email?token=abc%2Bdef&amp;email=a@example.com"`)
	assert.Contains(t, msg.HTML, "Alice &lt;admin&gt;")
	assert.Contains(t, msg.Text, testLink)
}

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Message{Subject: "s", HTML: "h"}.Validate(), ErrInvalidMessage)
	require.ErrorIs(t, Message{To: "a@b.c", HTML: "h"}.Validate(), ErrInvalidMessage)
	require.ErrorIs(t, Message{To: "a@b.c", Subject: "s"}.Validate(), ErrInvalidMessage)
}

func TestPostmarkSender(t *testing.T) {
	t.Parallel()

	var got postmark.Email
	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = r.Header.Get("X-Postmark-Server-Token")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		if got.To == "reject@example.com" {
			_, _ = w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid email request"}`))
			return
		}
		_, _ = w.Write([]byte(`{"To":"a@example.com","MessageID":"m-1","ErrorCode":0,"Message":"OK"}`))
	}))
	t.Cleanup(srv.Close)

	s := NewPostmarkSender("server-token", "", "no-reply@example.com")
	s.Client.BaseURL = srv.URL

	msg, err := PasswordResetEmail("a@example.com", "Alice", "CourseHub", "https://client.example.com/reset")
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "server-token", token)
	assert.Equal(t, "no-reply@example.com", got.From)
	assert.Equal(t, "a@example.com", got.To)
	assert.Equal(t, TagPasswordReset, got.Tag)

	msg.To = "reject@example.com"
	require.ErrorIs(t, s.Send(context.Background(), msg), ErrSendFailed)
}

func TestSMTPSenderBuildsMIME(t *testing.T) {
	t.Parallel()

	s := &SMTPSender{Host: "localhost", Port: 2525, From: "no-reply@example.com", FromName: "CourseHub"}
	msg, err := ConfirmationEmail("a@example.com", "Alice", "CourseHub", testLink)
	require.NoError(t, err)

	buf, err := s.build(msg).MimeBuf()
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Subject: Confirm your CourseHub account")
	assert.Contains(t, raw, "To: a@example.com")
	assert.Contains(t, raw, "no-reply@example.com")
}

func TestSMTPSenderHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Port 1 is never an SMTP server; the cancelled context wins or the
	// dial fails, and both surface as ErrSendFailed.
	s := &SMTPSender{Host: "127.0.0.1", Port: 1, From: "no-reply@example.com"}
	msg, err := ConfirmationEmail("a@example.com", "Alice", "CourseHub", testLink)
	require.NoError(t, err)
	require.ErrorIs(t, s.Send(ctx, msg), ErrSendFailed)
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := &LogSender{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	msg, err := ConfirmationEmail("a@example.com", "Alice", "CourseHub", testLink)
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Contains(t, buf.String(), `"to":"a@example.com"`)
	assert.Contains(t, buf.String(), "confirm-email")
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Provider: ProviderLog, From: "x@example.com"}, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	s, err = New(Config{Provider: ProviderPostmark, From: "x@example.com", PostmarkServerToken: "t"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &PostmarkSender{}, s)

	s, err = New(Config{Provider: ProviderSMTP, From: "x@example.com", SMTPHost: "mail", SMTPPort: 25}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	_, err = New(Config{Provider: ProviderSMTP, From: "x@example.com"}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Provider: "carrier-pigeon", From: "x@example.com"}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
