// Package mailer delivers contact form notifications. The intake pipeline
// depends only on the Dispatcher contract; SMTP specifics live behind it.
package mailer

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"bfluegel-contact/internal/model"
)

// Notification is a fully rendered message ready for delivery.
type Notification struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	ReplyTo  string
}

// Dispatcher sends a notification to the configured recipient. A send
// failure surfaces as a 500-class outcome and is never retried server-side.
type Dispatcher interface {
	Send(ctx context.Context, n Notification) error
}

// SMTPConfig carries the connection settings for the SMTP dispatcher.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	ToAddress   string
	ToName      string
}

// SMTP delivers notifications over an authenticated STARTTLS connection.
type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg}
}

func (s *SMTP) Send(ctx context.Context, n Notification) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.FromAddress); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.AddToFormat(n.ToName, n.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	if n.ReplyTo != "" {
		if err := msg.ReplyTo(n.ReplyTo); err != nil {
			return fmt.Errorf("set reply-to: %w", err)
		}
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, n.HTMLBody)

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// BuildNotification renders the notification for a validated submission,
// with the submitter set as reply-to.
func BuildNotification(cfg SMTPConfig, sub *model.Submission) (Notification, error) {
	body, err := renderBody(sub)
	if err != nil {
		return Notification{}, err
	}
	return Notification{
		To:       cfg.ToAddress,
		ToName:   cfg.ToName,
		Subject:  "[Kontaktformular] " + sub.SubjectLabel,
		HTMLBody: body,
		ReplyTo:  sub.Email,
	}, nil
}
