package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

// Mailer is the outbound email transport boundary: send one message,
// get back a provider message id or an error.
type Mailer interface {
	Send(to, subject, body string) (string, error)
}

type smtpMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) Mailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send implements Mailer. SMTP has no provider-assigned id, so the
// Message-ID header we stamp on the message is returned instead.
func (m *smtpMailer) Send(to, subject, body string) (string, error) {
	if m.host == "" {
		return "", fmt.Errorf("smtp transport is not configured")
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), m.host)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Message-ID: %s\r\n", messageID))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return messageID, nil
}
