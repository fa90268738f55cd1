package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/notify")

type SmtpConfig struct {
	Server     string   `json:"server"`
	Port       int      `json:"port"`
	Address    string   `json:"address"`
	Password   string   `json:"password"`
	Recipients []string `json:"recipients"`
	// the name shown next to the sender address
	FromName string `json:"from_name"`
}

func (c SmtpConfig) Enabled() bool {
	return c.Server != "" && len(c.Recipients) > 0
}

// Email delivers reports over SMTP. port 465 uses implicit TLS, every other
// port tries STARTTLS through the standard smtp client.
type Email struct {
	config SmtpConfig
}

func NewEmail(config SmtpConfig) Email {
	return Email{config: config}
}

func (e Email) Message(subject, body string) *email.Email {
	mail := email.NewEmail()
	mail.From = e.config.Address
	if e.config.FromName != "" {
		mail.From = fmt.Sprintf("%s <%s>", e.config.FromName, e.config.Address)
	}
	mail.To = e.config.Recipients
	mail.Subject = subject
	mail.Text = []byte(body)
	return mail
}

func (e Email) Notify(ctx context.Context, subject, body string) error {
	ctx, span := tracer.Start(ctx, "Email.Notify")
	defer span.End()

	mail := e.Message(subject, body)
	addr := fmt.Sprintf("%s:%d", e.config.Server, e.config.Port)
	auth := smtp.PlainAuth("", e.config.Address, e.config.Password, e.config.Server)

	var err error
	if e.config.Port == 465 {
		err = mail.SendWithTLS(addr, auth, &tls.Config{ServerName: e.config.Server})
	} else {
		err = mail.Send(addr, auth)
		if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
			err = mail.Send(addr, nil)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}

	slog.InfoContext(ctx, "sent report email", "subject", subject, "recipients", len(e.config.Recipients))
	return nil
}

// Writer prints reports to an io.Writer, used when no SMTP server is configured.
type Writer struct {
	Out io.Writer
}

func (w Writer) Notify(_ context.Context, subject, body string) error {
	_, err := fmt.Fprintf(w.Out, "Subject: %s\n\n%s", subject, body)
	return err
}
