package repository

import (
	"github.com/leaseflow/leaseflow/internal/domain/contract"
	"github.com/leaseflow/leaseflow/internal/domain/escrow"
	"github.com/leaseflow/leaseflow/internal/domain/notification"
	"github.com/leaseflow/leaseflow/internal/domain/payment"
	"github.com/leaseflow/leaseflow/internal/domain/user"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/postgres"
	postgresRepo "github.com/leaseflow/leaseflow/internal/repository/postgres"
)

func NewContractRepository(db *postgres.DB, logger *logger.Logger) contract.Repository {
	return postgresRepo.NewContractRepository(db, logger)
}

func NewEscrowRepository(db *postgres.DB, logger *logger.Logger) escrow.Repository {
	return postgresRepo.NewEscrowRepository(db, logger)
}

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return postgresRepo.NewPaymentRepository(db, logger)
}

func NewNotificationRepository(db *postgres.DB, logger *logger.Logger) notification.Repository {
	return postgresRepo.NewNotificationRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(db, logger)
}
