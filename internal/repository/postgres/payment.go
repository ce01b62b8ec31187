package postgres

import (
	"context"

	"github.com/leaseflow/leaseflow/internal/domain/payment"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/postgres"
	"github.com/leaseflow/leaseflow/internal/types"
)

type paymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewPaymentRepository creates a new instance of rent payment repository
func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO rent_payments (
			id, contract_id, tenant_id, landlord_id, amount,
			payment_type, payout_route, months_covered,
			payment_method, reference, gateway_transaction_id, paid_at,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :contract_id, :tenant_id, :landlord_id, :amount,
			:payment_type, :payout_route, :months_covered,
			:payment_method, :reference, :gateway_transaction_id, :paid_at,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("recording rent payment",
		"payment_id", p.ID,
		"contract_id", p.ContractID,
		"amount", p.Amount,
		"payment_type", p.PaymentType,
	)

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record rent payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	query := `
		SELECT * FROM rent_payments
		WHERE id = :id
		AND status = :status`

	params := map[string]interface{}{
		"id":     id,
		"status": types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query rent payment").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("payment not found").
			WithHintf("Rent payment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var p payment.Payment
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan rent payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) ListByContract(ctx context.Context, contractID string) ([]*payment.Payment, error) {
	query := `
		SELECT * FROM rent_payments
		WHERE contract_id = :contract_id
		AND status = :status
		ORDER BY paid_at DESC`

	params := map[string]interface{}{
		"contract_id": contractID,
		"status":      types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query rent payments").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var payments []*payment.Payment
	for rows.Next() {
		var p payment.Payment
		if err := rows.StructScan(&p); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan rent payment").
				Mark(ierr.ErrDatabase)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Error iterating rent payment rows").
			Mark(ierr.ErrDatabase)
	}

	return payments, nil
}
