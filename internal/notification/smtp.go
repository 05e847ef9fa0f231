package notification

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTPMailer sends mail over authenticated SMTP (STARTTLS ports such as
// 587). The configured username doubles as the envelope sender.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
}

// NewSMTPMailer builds a mailer for the given SMTP endpoint and credentials.
func NewSMTPMailer(host, port, username, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password}
}

// Send delivers the message. The context is accepted for interface parity;
// net/smtp enforces its own transport timeouts.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	addr := net.JoinHostPort(m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	msg := buildMessage(m.username, to, subject, body)
	if err := smtp.SendMail(addr, auth, m.username, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %q <%s>\r\n", SenderName, from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
