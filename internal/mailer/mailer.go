// Package mailer sends best-effort email notifications. Sends run in
// the background and any failure is logged and dropped; a notification
// must never fail the mutation that triggered it.
package mailer

import (
	"fmt"

	"lexdesk/pkg/types"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
	logger  *logrus.Logger
}

// New builds the dispatcher from SMTP env config. With no SMTP_HOST the
// mailer is a logged no-op and every triggering mutation still succeeds.
func New(config *types.Config, logger *logrus.Logger) *Mailer {
	if config.SMTPHost == "" {
		logger.Warn("SMTP_HOST not configured, email notifications disabled")
		return &Mailer{logger: logger}
	}

	return &Mailer{
		dialer:  gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword),
		from:    config.EmailFrom,
		enabled: true,
		logger:  logger,
	}
}

func (m *Mailer) Enabled() bool {
	return m.enabled
}

func (m *Mailer) ClientCreated(to, clientName, advocateName string) {
	m.send(to, "Welcome to your client portal",
		fmt.Sprintf("<p>Hello %s,</p><p>%s has set up a portal account for you. You can now sign in to follow your cases and documents.</p>", clientName, advocateName))
}

func (m *Mailer) DocumentUploaded(to, caseNumber, fileName string) {
	m.send(to, fmt.Sprintf("New document on case %s", caseNumber),
		fmt.Sprintf("<p>A new document <strong>%s</strong> was added to case %s.</p>", fileName, caseNumber))
}

func (m *Mailer) ClientDeleted(to, clientName string) {
	m.send(to, "Your portal account was closed",
		fmt.Sprintf("<p>Hello %s,</p><p>Your client portal account and its records have been removed.</p>", clientName))
}

func (m *Mailer) send(to, subject, htmlBody string) {
	if !m.enabled {
		m.logger.WithField("to", to).Debug("email disabled, skipping send")
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				m.logger.WithField("panic", r).Error("mailer panicked during send")
			}
		}()

		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/html", htmlBody)

		if err := m.dialer.DialAndSend(msg); err != nil {
			m.logger.WithError(err).WithField("to", to).Error("failed to send email")
		}
	}()
}
