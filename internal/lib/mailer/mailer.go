// Package mailer отправляет письма через SMTP (gomail).
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/magabrotheeeer/course-platform/internal/config"
)

// ErrNoRecipients письмо без получателей.
var ErrNoRecipients = errors.New("no recipients")

// Dialer отправляет готовые сообщения.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer отправляет одно письмо на список адресов.
type Mailer struct {
	dialer Dialer
	from   string
}

// New создает Mailer поверх gomail.Dialer по настройкам SMTP.
func New(cfg config.SMTP) *Mailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.SSL = cfg.SMTPSSL
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12}

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return NewWithDialer(d, from)
}

// NewWithDialer создает Mailer с произвольным транспортом.
func NewWithDialer(d Dialer, from string) *Mailer {
	return &Mailer{dialer: d, from: from}
}

// From адрес отправителя по умолчанию.
func (m *Mailer) From() string {
	return m.from
}

// Send отправляет текстовое письмо subject/body от from всем recipients.
// Пустой from заменяется адресом по умолчанию. Получатели идут в Bcc,
// в To остается отправитель, адреса подписчиков друг другу не видны.
func (m *Mailer) Send(ctx context.Context, subject, body, from string, recipients []string) error {
	const op = "mailer.Send"
	if len(recipients) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoRecipients)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if from == "" {
		from = m.from
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", from)
	msg.SetHeader("Bcc", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
