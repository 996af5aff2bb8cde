package mail

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Supported delivery drivers.
const (
	DriverSMTP     = "smtp"
	DriverSendGrid = "sendgrid"
	DriverLog      = "log"
)

// Message represents an outbound email. HTMLBody is optional; when present the
// plain Body is sent as the alternative part.
type Message struct {
	From     string
	FromName string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Mailer defines behaviour for sending email messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Settings captures the delivery configuration for every driver.
type Settings struct {
	Driver   string
	From     string
	FromName string
	SMTP     SMTPSettings
	SendGrid SendGridSettings
}

// SMTPSettings capture the runtime configuration required by the SMTP mailer.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	// UseTLS forces implicit TLS (SMTPS). STARTTLS is negotiated otherwise.
	UseTLS  bool
	Timeout time.Duration
}

// SendGridSettings configure the SendGrid HTTP API mailer.
type SendGridSettings struct {
	APIKey string
	Host   string
}

// New builds the Mailer selected by settings.Driver.
func New(settings Settings) (Mailer, error) {
	switch strings.ToLower(strings.TrimSpace(settings.Driver)) {
	case DriverSMTP:
		return NewSMTPMailer(settings)
	case DriverSendGrid:
		return NewSendGridMailer(settings)
	case DriverLog, "":
		return NewLogMailer(settings), nil
	default:
		return nil, fmt.Errorf("mail: unsupported driver %q", settings.Driver)
	}
}

// envelope is a message after defaults and address checks have been applied.
type envelope struct {
	from     string
	fromName string
	to       []string
	subject  string
	text     string
	html     string
}

func prepare(settings Settings, msg Message) (envelope, error) {
	recipients := uniqueAddresses(msg.To)
	if len(recipients) == 0 {
		return envelope{}, errors.New("mail: at least one recipient is required")
	}

	from := strings.TrimSpace(msg.From)
	if from == "" {
		from = strings.TrimSpace(settings.From)
	}
	if from == "" {
		return envelope{}, errors.New("mail: sender address is required")
	}
	if _, err := mail.ParseAddress(from); err != nil {
		return envelope{}, fmt.Errorf("mail: invalid from address: %w", err)
	}

	for _, rcpt := range recipients {
		if _, err := mail.ParseAddress(rcpt); err != nil {
			return envelope{}, fmt.Errorf("mail: invalid recipient address %q: %w", rcpt, err)
		}
	}

	fromName := strings.TrimSpace(msg.FromName)
	if fromName == "" {
		fromName = strings.TrimSpace(settings.FromName)
	}

	return envelope{
		from:     from,
		fromName: fromName,
		to:       recipients,
		subject:  escapeHeader(msg.Subject),
		text:     msg.Body,
		html:     msg.HTMLBody,
	}, nil
}

func uniqueAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	var result []string
	for _, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		key := strings.ToLower(addr)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, addr)
	}
	return result
}

func escapeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return value
}
