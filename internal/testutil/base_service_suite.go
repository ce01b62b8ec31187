package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/leaseflow/leaseflow/internal/config"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/postgres"
)

// Stores holds the in-memory repositories shared by service tests
type Stores struct {
	ContractRepo     *InMemoryContractStore
	EscrowRepo       *InMemoryEscrowStore
	PaymentRepo      *InMemoryPaymentStore
	NotificationRepo *InMemoryNotificationStore
	UserRepo         *InMemoryUserStore
}

// BaseServiceTestSuite provides common setup for service tests
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	cfg     *config.Configuration
	logger  *logger.Logger
	db      postgres.IClient
	stores  Stores
	gateway *RecordingGateway
	email   *NoopEmailSender
}

// SetupTest initializes fresh stores and collaborators before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.cfg = config.GetDefaultConfig()

	log, err := logger.NewLogger(s.cfg)
	s.Require().NoError(err)
	s.logger = log

	s.db = NewMockPostgresClient(log)
	s.stores = Stores{
		ContractRepo:     NewInMemoryContractStore(),
		EscrowRepo:       NewInMemoryEscrowStore(),
		PaymentRepo:      NewInMemoryPaymentStore(),
		NotificationRepo: NewInMemoryNotificationStore(),
		UserRepo:         NewInMemoryUserStore(),
	}
	s.gateway = NewRecordingGateway()
	s.email = NewNoopEmailSender(false)
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetGateway() *RecordingGateway {
	return s.gateway
}

func (s *BaseServiceTestSuite) GetEmailSender() *NoopEmailSender {
	return s.email
}
