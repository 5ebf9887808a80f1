// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mail

import "log/slog"

// LogMailer writes messages to the structured log instead of delivering
// them. Used in development and demo mode where no relay is configured.
type LogMailer struct{}

// Send logs the message and always succeeds.
func (LogMailer) Send(to, subject, body string) error {
	slog.Info("mail (not sent, no relay configured)",
		"to", to,
		"subject", subject,
		"bytes", len(body),
	)
	return nil
}
