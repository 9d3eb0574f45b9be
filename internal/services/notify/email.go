// Package notify delivers the rendered report to operators. Delivery
// failures are surfaced to the caller but never abort a run: the report
// has already been computed and rendered by the time notification runs.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
)

// EmailConfig holds SMTP transport settings. The password is expected to
// come from the environment, never from the config file itself.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// EmailNotifier sends the HTML report over SMTP with STARTTLS.
type EmailNotifier struct {
	cfg EmailConfig
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

// Send delivers the HTML body with the given subject to all recipients.
func (n *EmailNotifier) Send(subject, htmlBody string) error {
	if n.cfg.Host == "" || len(n.cfg.To) == 0 {
		return errors.New("email notifier is not configured")
	}

	msg := strings.Join([]string{
		"From: " + n.cfg.From,
		"To: " + strings.Join(n.cfg.To, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if err := smtp.SendMail(addr, auth, n.cfg.From, n.cfg.To, []byte(msg)); err != nil {
		return errors.Wrapf(err, "send report email via %s", addr)
	}
	return nil
}
