package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leaseflow/leaseflow/internal/domain/escrow"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/postgres"
	"github.com/leaseflow/leaseflow/internal/types"
)

type escrowRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewEscrowRepository creates a new instance of escrow balance repository
func NewEscrowRepository(db *postgres.DB, logger *logger.Logger) escrow.Repository {
	return &escrowRepository{
		db:     db,
		logger: logger,
	}
}

func (r *escrowRepository) Get(ctx context.Context, id string) (*escrow.EscrowBalance, error) {
	query := `
		SELECT * FROM escrow_balances
		WHERE id = :id
		AND status = :status`

	params := map[string]interface{}{
		"id":     id,
		"status": types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query escrow balance").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("escrow balance not found").
			WithHintf("Escrow balance %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var e escrow.EscrowBalance
	if err := rows.StructScan(&e); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan escrow balance").
			Mark(ierr.ErrDatabase)
	}
	return &e, nil
}

// Accumulate uses an atomic upsert against the partial unique index on
// (contract_id) WHERE NOT is_released, so concurrent deposits on the same
// contract serialize in the database instead of racing a check-then-act.
func (r *escrowRepository) Accumulate(ctx context.Context, deposit *escrow.EscrowBalance) (*escrow.EscrowBalance, error) {
	query := `
		INSERT INTO escrow_balances (
			id, contract_id, landlord_id, total_escrowed, months_accumulated,
			expected_release_date, is_released,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :contract_id, :landlord_id, :total_escrowed, 1,
			:expected_release_date, FALSE,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)
		ON CONFLICT (contract_id) WHERE NOT is_released DO UPDATE SET
			total_escrowed = escrow_balances.total_escrowed + EXCLUDED.total_escrowed,
			months_accumulated = escrow_balances.months_accumulated + 1,
			updated_at = NOW(),
			updated_by = EXCLUDED.updated_by
		RETURNING *`

	r.logger.Debugw("accumulating escrow deposit",
		"contract_id", deposit.ContractID,
		"landlord_id", deposit.LandlordID,
		"amount", deposit.TotalEscrowed,
	)

	rows, err := r.db.NamedQueryContext(ctx, query, deposit)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to accumulate escrow deposit").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("escrow upsert returned no row").
			WithHint("Failed to accumulate escrow deposit").
			Mark(ierr.ErrDatabase)
	}

	var e escrow.EscrowBalance
	if err := rows.StructScan(&e); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan escrow balance").
			Mark(ierr.ErrDatabase)
	}
	return &e, nil
}

func (r *escrowRepository) GetUnreleasedByContract(ctx context.Context, contractID string) (*escrow.EscrowBalance, error) {
	query := `
		SELECT * FROM escrow_balances
		WHERE contract_id = :contract_id
		AND is_released = FALSE
		AND status = :status`

	params := map[string]interface{}{
		"contract_id": contractID,
		"status":      types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query escrow balance").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("no active escrow").
			WithHintf("Contract %s has no unreleased escrow balance", contractID).
			Mark(ierr.ErrNotFound)
	}

	var e escrow.EscrowBalance
	if err := rows.StructScan(&e); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan escrow balance").
			Mark(ierr.ErrDatabase)
	}
	return &e, nil
}

func (r *escrowRepository) ListReleasable(ctx context.Context, asOf time.Time) ([]*escrow.EscrowBalance, error) {
	query := `
		SELECT * FROM escrow_balances
		WHERE is_released = FALSE
		AND expected_release_date <= :as_of
		AND status = :status
		ORDER BY expected_release_date ASC`

	params := map[string]interface{}{
		"as_of":  asOf,
		"status": types.StatusPublished,
	}

	return r.queryBalances(ctx, query, params)
}

func (r *escrowRepository) ListUnreleasedByLandlord(ctx context.Context, landlordID string) ([]*escrow.EscrowBalance, error) {
	query := `
		SELECT * FROM escrow_balances
		WHERE landlord_id = :landlord_id
		AND is_released = FALSE
		AND status = :status
		ORDER BY created_at DESC`

	params := map[string]interface{}{
		"landlord_id": landlordID,
		"status":      types.StatusPublished,
	}

	return r.queryBalances(ctx, query, params)
}

func (r *escrowRepository) MarkReleased(ctx context.Context, id string, releasedAt time.Time, amount decimal.Decimal) error {
	query := `
		UPDATE escrow_balances
		SET
			is_released = TRUE,
			released_at = :released_at,
			released_amount = :released_amount,
			updated_at = NOW(),
			updated_by = :updated_by
		WHERE id = :id
		AND is_released = FALSE
		AND status = :status`

	params := map[string]interface{}{
		"id":              id,
		"released_at":     releasedAt,
		"released_amount": amount,
		"updated_by":      types.GetUserID(ctx),
		"status":          types.StatusPublished,
	}

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to release escrow balance").
			Mark(ierr.ErrDatabase)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to get rows affected").
			Mark(ierr.ErrDatabase)
	}
	if rowsAffected == 0 {
		return ierr.NewError("escrow balance not found or already released").
			WithHintf("Escrow balance %s was not found or already released", id).
			Mark(ierr.ErrInvalidOperation)
	}

	return nil
}

func (r *escrowRepository) SumUnreleasedByLandlord(ctx context.Context, landlordID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total_escrowed), 0) FROM escrow_balances
		WHERE landlord_id = :landlord_id
		AND is_released = FALSE
		AND status = :status`

	params := map[string]interface{}{
		"landlord_id": landlordID,
		"status":      types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHint("Failed to sum escrow balances").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	total := decimal.Zero
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return decimal.Zero, ierr.WithError(err).
				WithHint("Failed to scan escrow total").
				Mark(ierr.ErrDatabase)
		}
	}
	return total, nil
}

func (r *escrowRepository) queryBalances(ctx context.Context, query string, params map[string]interface{}) ([]*escrow.EscrowBalance, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query escrow balances").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var balances []*escrow.EscrowBalance
	for rows.Next() {
		var e escrow.EscrowBalance
		if err := rows.StructScan(&e); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan escrow balance").
				Mark(ierr.ErrDatabase)
		}
		balances = append(balances, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Error iterating escrow balance rows").
			Mark(ierr.ErrDatabase)
	}

	return balances, nil
}
