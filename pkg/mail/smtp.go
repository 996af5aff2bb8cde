package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type smtpSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers messages through an SMTP relay using gomail.
type SMTPMailer struct {
	settings Settings
	dialer   smtpSender
}

// NewSMTPMailer validates the SMTP settings and prepares a dialer.
func NewSMTPMailer(settings Settings) (*SMTPMailer, error) {
	cfg := settings.SMTP
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp: host is required")
	}
	if cfg.Port <= 0 {
		return nil, errors.New("smtp: port is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.UseTLS
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	settings.SMTP = cfg
	return &SMTPMailer{settings: settings, dialer: dialer}, nil
}

// Send builds a multipart message and hands it to the relay. The send runs on
// its own goroutine so a cancelled ctx releases the caller.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	env, err := prepare(m.settings, msg)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(buildGomailMessage(env))
	}()

	timeout := time.NewTimer(m.settings.SMTP.Timeout)
	defer timeout.Stop()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: send: %w", ctx.Err())
	case <-timeout.C:
		return errors.New("smtp: send: timed out")
	}
}

func buildGomailMessage(env envelope) *gomail.Message {
	gm := gomail.NewMessage()
	if env.fromName != "" {
		gm.SetAddressHeader("From", env.from, env.fromName)
	} else {
		gm.SetHeader("From", env.from)
	}
	gm.SetHeader("To", env.to...)
	gm.SetHeader("Subject", env.subject)

	if env.html != "" {
		gm.SetBody("text/html", env.html)
		if env.text != "" {
			gm.AddAlternative("text/plain", env.text)
		}
	} else {
		gm.SetBody("text/plain", env.text)
	}
	return gm
}
