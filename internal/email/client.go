package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/leaseflow/leaseflow/internal/config"
)

// Sender delivers a single email. Delivery is fire-and-forget from the
// scheduler's perspective; a failed send never aborts the job that queued it.
type Sender interface {
	IsEnabled() bool
	Send(ctx context.Context, to, subject, htmlContent, textContent string) (string, error)
}

// Client wraps the resend API behind the Sender interface
type Client struct {
	client      *resend.Client
	enabled     bool
	fromAddress string
	replyTo     string
}

var _ Sender = (*Client)(nil)

// NewClient creates an email client. With email disabled or no API key the
// client is returned in disabled mode and every Send fails fast.
func NewClient(cfg *config.Configuration) *Client {
	if !cfg.Email.Enabled || cfg.Email.APIKey == "" {
		return &Client{enabled: false}
	}

	return &Client{
		client:      resend.NewClient(cfg.Email.APIKey),
		enabled:     true,
		fromAddress: cfg.Email.FromAddress,
		replyTo:     cfg.Email.ReplyTo,
	}
}

// IsEnabled returns whether the email client is enabled
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// Send sends a plain text or HTML email and returns the provider message id
func (c *Client) Send(ctx context.Context, to, subject, htmlContent, textContent string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("email client is disabled")
	}

	params := &resend.SendEmailRequest{
		From:    c.fromAddress,
		To:      []string{to},
		Subject: subject,
		Html:    htmlContent,
		Text:    textContent,
	}
	if c.replyTo != "" {
		params.ReplyTo = c.replyTo
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return sent.Id, nil
}
