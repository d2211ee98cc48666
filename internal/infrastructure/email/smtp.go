package email

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"
	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
)

// Config captures the SMTP relay settings and the public base URL embedded
// in mail links.
type Config struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
	// AppURL is the externally reachable base URL, e.g. https://accounts.example.com
	AppURL string
}

// SMTPMailer sends the transactional account mails over SMTP.
type SMTPMailer struct {
	cfg Config
	log zerolog.Logger
}

func NewSMTPMailer(cfg Config, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// SendConfirmationMail mails the email-verification link issued at
// registration.
func (m *SMTPMailer) SendConfirmationMail(_ context.Context, user *domain.User, token string) error {
	link := fmt.Sprintf("%s/auth/verify-email/%s", m.cfg.AppURL, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Please confirm your email address by following <a href=%q>this link</a>.</p>",
		user.UserName, link,
	)
	return m.send(user.Email, "Please confirm your email address", body,
		fmt.Sprintf("Hi %s, confirm your email address: %s", user.UserName, link))
}

// SendPasswordResetMail mails the password-reset link. The link is valid for
// one hour.
func (m *SMTPMailer) SendPasswordResetMail(_ context.Context, user *domain.User, token string) error {
	link := fmt.Sprintf("%s/auth/reset-password/%s", m.cfg.AppURL, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Reset your password by following <a href=%q>this link</a>. The link expires in one hour.</p>",
		user.UserName, link,
	)
	return m.send(user.Email, "Reset your password", body,
		fmt.Sprintf("Hi %s, reset your password: %s (expires in one hour)", user.UserName, link))
}

// SendWelcomeMail mails the post-verification welcome message.
func (m *SMTPMailer) SendWelcomeMail(_ context.Context, user *domain.User) error {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your account is verified. Welcome aboard!</p><p><a href=%q>%s</a></p>",
		user.UserName, m.cfg.AppURL, m.cfg.AppURL,
	)
	return m.send(user.Email, "Welcome!", body,
		fmt.Sprintf("Hi %s, your account is verified. Welcome aboard! %s", user.UserName, m.cfg.AppURL))
}

func (m *SMTPMailer) send(to, subject, htmlBody, textBody string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	d := mail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}

	if err := d.DialAndSend(msg); err != nil {
		m.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("smtp send failed")
		return fmt.Errorf("smtp send: %w", err)
	}

	m.log.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}
