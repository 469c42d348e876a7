package email

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/dm9/collections-engine/internal/config"
)

// Sender delivers one rendered message to one recipient. Implementations
// must be safe to call once per recipient in a dispatch loop.
type Sender interface {
	Send(to, subject, body string) error
}

// LogSender writes the message to the log instead of delivering it. This is
// the default transport in development.
type LogSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(to, subject, body string) error {
	preview := body
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}

	s.logger.WithFields(logrus.Fields{
		"recipient": to,
		"subject":   subject,
		"preview":   preview,
	}).Info("email sent (log transport)")

	return nil
}

// SMTPSender delivers messages through a plain SMTP relay.
type SMTPSender struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.FromAddress,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, to, subject, body)

	addr := s.host + ":" + s.port
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	return nil
}

// NewSenderFromConfig picks the transport named in the configuration.
func NewSenderFromConfig(cfg *config.Config, logger *logrus.Logger) Sender {
	if cfg.Email.Transport == "smtp" {
		return NewSMTPSender(cfg.Email)
	}
	return NewLogSender(logger)
}
