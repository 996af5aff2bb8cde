package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// SendGridMailer delivers messages through the SendGrid v3 HTTP API.
type SendGridMailer struct {
	settings Settings
	call     func(ctx context.Context, req rest.Request) (*rest.Response, error)
}

// NewSendGridMailer requires an API key.
func NewSendGridMailer(settings Settings) (*SendGridMailer, error) {
	if strings.TrimSpace(settings.SendGrid.APIKey) == "" {
		return nil, errors.New("sendgrid: api key is required")
	}
	if strings.TrimSpace(settings.SendGrid.Host) == "" {
		settings.SendGrid.Host = sendGridHost
	}
	return &SendGridMailer{
		settings: settings,
		call: func(_ context.Context, req rest.Request) (*rest.Response, error) {
			return sendgrid.API(req)
		},
	}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	env, err := prepare(m.settings, msg)
	if err != nil {
		return err
	}

	req := sendgrid.GetRequest(m.settings.SendGrid.APIKey, sendGridEndpoint, m.settings.SendGrid.Host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(buildSendGridMessage(env))

	res, err := m.call(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: send: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

func buildSendGridMessage(env envelope) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = env.subject
	for _, to := range env.to {
		p.AddTos(sgmail.NewEmail("", to))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(env.fromName, env.from))
	m.AddPersonalizations(p)

	text := env.text
	if text == "" {
		text = " "
	}
	m.AddContent(sgmail.NewContent("text/plain", text))
	if env.html != "" {
		m.AddContent(sgmail.NewContent("text/html", env.html))
	}
	return m
}
