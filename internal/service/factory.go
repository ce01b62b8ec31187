package service

import (
	"github.com/leaseflow/leaseflow/internal/config"
	"github.com/leaseflow/leaseflow/internal/domain/contract"
	"github.com/leaseflow/leaseflow/internal/domain/escrow"
	"github.com/leaseflow/leaseflow/internal/domain/notification"
	"github.com/leaseflow/leaseflow/internal/domain/payment"
	"github.com/leaseflow/leaseflow/internal/domain/user"
	"github.com/leaseflow/leaseflow/internal/email"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/payout"
	"github.com/leaseflow/leaseflow/internal/postgres"
)

// ServiceParams holds the common dependencies injected into every service
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	ContractRepo     contract.Repository
	EscrowRepo       escrow.Repository
	PaymentRepo      payment.Repository
	NotificationRepo notification.Repository
	UserRepo         user.Repository

	// Collaborators
	PayoutGateway payout.Gateway
	EmailSender   email.Sender
}
