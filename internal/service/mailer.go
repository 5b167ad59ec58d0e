package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Email outbound message; HTML is required, Text is an optional alternative.
type Email struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers one email.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

func validateEmail(msg Email) error {
	if len(msg.To) == 0 {
		return errors.New("email has no recipients")
	}
	if msg.Subject == "" || msg.HTML == "" {
		return errors.New("email subject and body are required")
	}
	return nil
}

// APIMailer transactional email HTTP API (Resend-compatible POST /emails).
type APIMailer struct {
	httpClient *resty.Client
	from       string
	logger     *zap.Logger
}

func NewAPIMailer(baseURL, apiKey, from string, logger *zap.Logger) *APIMailer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &APIMailer{httpClient: client, from: from, logger: logger}
}

type apiEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type apiEmailResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (m *APIMailer) Send(ctx context.Context, msg Email) error {
	if err := validateEmail(msg); err != nil {
		return err
	}

	var result apiEmailResponse
	var apiErr apiEmailResponse
	resp, err := m.httpClient.R().
		SetContext(ctx).
		SetBody(apiEmailRequest{
			From:    m.from,
			To:      msg.To,
			Subject: msg.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
			ReplyTo: msg.ReplyTo,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("failed to call email API: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("email API error: %s: %s", resp.Status(), apiErr.Message)
	}

	m.logger.Info("Email sent",
		zap.String("id", result.ID),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// SMTPMailer plain SMTP via gomail (implicit TLS on 465).
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func NewSMTPMailer(host string, port int, user, pass, from string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		logger: logger,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Email) error {
	if err := validateEmail(msg); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	} else {
		gm.SetBody("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	m.logger.Info("Email sent via SMTP", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// LogMailer logs instead of sending; used when no provider is configured.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Email) error {
	if err := validateEmail(msg); err != nil {
		return err
	}
	m.logger.Info("Email not sent (no mail provider configured)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
