// Package service contains outbound integrations used by the account flows
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const resetSubject = "GREANIX Password Reset Request"

// Mailer delivers password reset links
type Mailer interface {
	SendResetLink(ctx context.Context, to, token string) error
}

type MailConfig struct {
	Host          string
	Port          int
	SenderAddress string
	Password      string
	ResetURL      string
}

type SMTPMailer struct {
	cfg    MailConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg MailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.SenderAddress, cfg.Password),
	}
}

func (m *SMTPMailer) SendResetLink(ctx context.Context, to, token string) error {
	if to == m.cfg.SenderAddress {
		return errors.New("invalid email address")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	link, err := ResetLink(m.cfg.ResetURL, token)
	if err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(buildResetMessage(m.cfg.SenderAddress, to, link)); err != nil {
		return fmt.Errorf("failed to send reset mail, %w", err)
	}

	return nil
}

// LogMailer is used when outgoing mail is disabled. It writes the reset link to
// the log so a local deployment can still finish the flow.
type LogMailer struct {
	ResetURL string
}

func (m *LogMailer) SendResetLink(_ context.Context, to, token string) error {
	link, err := ResetLink(m.ResetURL, token)
	if err != nil {
		return err
	}

	zap.L().Info("Password reset requested, mail delivery disabled",
		zap.String("to", to),
		zap.String("link", link))
	return nil
}

// ResetLink appends the token as a query parameter to base
func ResetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse reset url, %w", err)
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func buildResetMessage(from, to, link string) *gomail.Message {
	m := gomail.NewMessage()

	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", resetSubject)
	m.SetBody("text/html", resetBody(link))

	return m
}

func resetBody(link string) string {
	return fmt.Sprintf(
		"<p>You are receiving this because you (or someone else) requested a password reset for your account.</p>"+
			"<p>Click <a href='%v'>here</a> to choose a new password. This link will expire in one hour.</p>"+
			"<p>If you did not request this, please ignore this email and your password will remain unchanged.</p>",
		link)
}
