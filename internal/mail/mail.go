// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail sends transactional notifications: order confirmations to
// customers and inquiry alerts to the sales inbox. Failures are logged by
// callers and never fail the originating request.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends a plain-text message to one recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string // host:port
	from string
	auth smtp.Auth
}

// NewSMTP creates a mailer for the given relay. user may be empty for
// relays that accept unauthenticated submission from the app network.
func NewSMTP(addr, from, user, password, host string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPMailer{addr: addr, from: from, auth: auth}
}

// Send delivers one message. Headers are minimal: transactional text mail
// only, no MIME multipart.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
