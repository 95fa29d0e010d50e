package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	TagConfirmation  = "email-confirmation"
	TagPasswordReset = "password-reset"
)

var (
	confirmationHTML = template.Must(template.New("confirm").Parse(`<p>Hi {{.Name}},</p>
<p>Welcome to {{.Product}}. Please confirm your email address to activate your account.</p>
<p><a href="{{.Link}}">Confirm my email</a></p>
<p>If you did not create an account you can ignore this message.</p>`))

	resetHTML = template.Must(template.New("reset").Parse(`<p>Hi {{.Name}},</p>
<p>We received a request to reset your {{.Product}} password.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
<p>If you did not ask for this you can ignore this message; your password is unchanged.</p>`))
)

type messageData struct {
	Name    string
	Product string
	Link    template.URL
}

func render(t *template.Template, d messageData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// ConfirmationEmail asks the recipient to follow link to confirm their
// address. link is inserted as-is; callers build and encode it.
func ConfirmationEmail(to, name, product, link string) (Message, error) {
	html, err := render(confirmationHTML, messageData{Name: name, Product: product, Link: template.URL(link)}) // #nosec G203
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Confirm your " + product + " account",
		HTML:    html,
		Text:    fmt.Sprintf("Hi %s,\n\nConfirm your %s account by visiting:\n%s\n", name, product, link),
		Tag:     TagConfirmation,
	}, nil
}

// PasswordResetEmail carries a password reset link.
func PasswordResetEmail(to, name, product, link string) (Message, error) {
	html, err := render(resetHTML, messageData{Name: name, Product: product, Link: template.URL(link)}) // #nosec G203
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Reset your " + product + " password",
		HTML:    html,
		Text:    fmt.Sprintf("Hi %s,\n\nReset your %s password by visiting:\n%s\n", name, product, link),
		Tag:     TagPasswordReset,
	}, nil
}
