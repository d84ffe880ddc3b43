// Package notify sends registration confirmation emails. The mailer is a
// no-op unless an SMTP host is configured, so local setups work without a
// mail relay.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/logger"
)

// Mailer delivers plain-text confirmation emails over SMTP.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
	log      logger.Logger

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func NewMailer(cfg Config, log logger.Logger) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		fromName: cfg.FromName,
		log:      log,
		send:     smtp.SendMail,
	}
}

// Enabled reports whether the mailer has enough configuration to deliver.
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.from != ""
}

// SendRegistrationConfirmation emails the registrant. Delivery is best
// effort; registration has already been stored when this runs.
func (m *Mailer) SendRegistrationConfirmation(reg domain.Registration, event domain.Event) error {
	if !m.Enabled() {
		m.log.Debug("smtp not configured, skipping confirmation email",
			logger.String("email", reg.Email))
		return nil
	}

	subject := fmt.Sprintf("Registration confirmed: %s", event.Title)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Your registration for %s on %s at %s is confirmed.\r\n\r\n"+
			"See you there!\r\n",
		reg.Name, event.Title, event.Date.Format("Monday, 2 January 2006 15:04"), event.Location)

	msg := m.buildMessage(reg.Email, subject, body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := m.host + ":" + m.port
	if err := m.send(addr, auth, m.from, []string{reg.Email}, msg); err != nil {
		return fmt.Errorf("send confirmation to %s: %w", reg.Email, err)
	}
	m.log.Info("confirmation email sent",
		logger.String("email", reg.Email),
		logger.String("event_id", event.ID))
	return nil
}

func (m *Mailer) buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
