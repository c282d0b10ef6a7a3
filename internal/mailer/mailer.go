package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/go-mail/mail/v2"

	"reviewhub/internal/config"
)

//go:embed templates
var templateFS embed.FS

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer *mail.Dialer
	sender string
}

func New(cfg *config.Config) *Mailer {
	dialer := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	dialer.Timeout = 10 * time.Second

	return &Mailer{
		dialer: dialer,
		sender: cfg.SMTPSender,
	}
}

// SendConfirmationCode delivers the signup confirmation code to the user.
func (m *Mailer) SendConfirmationCode(recipient, username, code string) error {
	return m.send(recipient, "confirmation_code.tmpl", map[string]any{
		"Username": username,
		"Code":     code,
	})
}

func (m *Mailer) send(recipient, templateFile string, data any) error {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return fmt.Errorf("failed to parse mail template: %w", err)
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return fmt.Errorf("failed to render subject: %w", err)
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "plainBody", data); err != nil {
		return fmt.Errorf("failed to render body: %w", err)
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", body.String())

	return m.dialer.DialAndSend(msg)
}
