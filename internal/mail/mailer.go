// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail sends contact-form notifications over SMTP. Delivery is
// best effort: the notifier queues messages for background workers and
// failures are logged, never surfaced to the submitting client.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Message is a single outbound notification.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Sender delivers a message to its recipients.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends mail through a single SMTP relay using PLAIN auth.
type SMTPSender struct {
	addr string
	auth smtp.Auth
}

// NewSMTPSender creates a sender for the given relay. Username may be
// empty, in which case no authentication is attempted.
func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	s := &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
	}
	if username != "" {
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

// Send delivers the message synchronously.
func (s *SMTPSender) Send(msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	var sb strings.Builder
	sb.WriteString("From: " + msg.From + "\r\n")
	sb.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	sb.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.Body)

	if err := smtp.SendMail(s.addr, s.auth, msg.From, msg.To, []byte(sb.String())); err != nil {
		return fmt.Errorf("mail: send via %s: %w", s.addr, err)
	}
	return nil
}

// sanitizeHeader strips CR and LF to prevent header injection.
func sanitizeHeader(v string) string {
	v = strings.ReplaceAll(v, "\r", "")
	v = strings.ReplaceAll(v, "\n", "")
	return v
}
