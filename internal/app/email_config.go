package app

import "github.com/charlesng35/facultysite/pkg/mail"

// MailSettings converts EmailConfig to the mail package representation.
func (c EmailConfig) MailSettings() mail.Settings {
	return mail.Settings{
		Driver:   c.Driver,
		From:     c.From,
		FromName: c.FromName,
		SMTP: mail.SMTPSettings{
			Host:     c.SMTP.Host,
			Port:     c.SMTP.Port,
			Username: c.SMTP.Username,
			Password: c.SMTP.Password,
			UseTLS:   c.SMTP.UseTLS,
			Timeout:  c.SMTP.Timeout,
		},
		SendGrid: mail.SendGridSettings{
			APIKey: c.SendGrid.APIKey,
			Host:   c.SendGrid.Host,
		},
	}
}
