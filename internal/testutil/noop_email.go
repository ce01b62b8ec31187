package testutil

import (
	"context"

	"github.com/leaseflow/leaseflow/internal/email"
	"github.com/leaseflow/leaseflow/internal/types"
)

var _ email.Sender = (*NoopEmailSender)(nil)

// NoopEmailSender accepts every send without delivering anything
type NoopEmailSender struct {
	Enabled bool
	Sent    []string
}

func NewNoopEmailSender(enabled bool) *NoopEmailSender {
	return &NoopEmailSender{Enabled: enabled}
}

func (s *NoopEmailSender) IsEnabled() bool {
	return s.Enabled
}

func (s *NoopEmailSender) Send(ctx context.Context, to, subject, htmlContent, textContent string) (string, error) {
	s.Sent = append(s.Sent, to)
	return types.GenerateUUID(), nil
}
