package service

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer sends a single plain-text email.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// SendAsync delivers an email off the request path. Booking responses never
// wait on SMTP; a failed send is logged and dropped.
func SendAsync(mailer Mailer, log *logrus.Logger, to, subject, body string) {
	go func() {
		if err := mailer.Send(to, subject, body); err != nil {
			log.Warnf("Failed to send email to %s (%s): %+v", to, subject, err)
		}
	}()
}
