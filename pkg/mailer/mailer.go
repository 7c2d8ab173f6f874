// Package mailer renders the OTP emails and delivers them over SMTP.
package mailer

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/otp.html
var otpTemplateSource string

var otpTemplate = template.Must(template.New("otp").Parse(otpTemplateSource))

// OTPEmail holds the substitutions for the OTP email template.
type OTPEmail struct {
	Title    string
	Username string
	Otp      string
	Message  string
}

// RenderOTP renders the OTP email body. Pure function of its input, so the
// same data always produces the same HTML.
func RenderOTP(data OTPEmail) (string, error) {
	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render OTP email: %w", err)
	}
	return buf.String(), nil
}

// SMTPMailer delivers messages through an SMTP relay. Each send dials a fresh
// connection; delivery volume here is one message per auth operation.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	sender   string
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(host string, port int, username, password, sender string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
	}
}

// Send delivers a rendered HTML message to a single recipient.
func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
