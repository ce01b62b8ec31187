package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leaseflow/leaseflow/internal/domain/contract"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/postgres"
	"github.com/leaseflow/leaseflow/internal/types"
)

type contractRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewContractRepository creates a new instance of rent contract repository
func NewContractRepository(db *postgres.DB, logger *logger.Logger) contract.Repository {
	return &contractRepository{
		db:     db,
		logger: logger,
	}
}

const contractColumns = `
	id, tenant_id, landlord_id, property_id, unit_id, monthly_amount,
	expiry_date, payout_type, next_payment_due, transition_start,
	contract_status, is_existing_tenant, original_expiry_date,
	status, created_at, updated_at, created_by, updated_by`

func (r *contractRepository) Create(ctx context.Context, c *contract.RentContract) error {
	query := `
		INSERT INTO rent_contracts (` + contractColumns + `
		) VALUES (
			:id, :tenant_id, :landlord_id, :property_id, :unit_id, :monthly_amount,
			:expiry_date, :payout_type, :next_payment_due, :transition_start,
			:contract_status, :is_existing_tenant, :original_expiry_date,
			:status, :created_at, :updated_at, :created_by, :updated_by
		) RETURNING` + contractColumns

	r.logger.Debugw("creating rent contract",
		"contract_id", c.ID,
		"tenant_id", c.TenantID,
	)

	rows, err := r.db.NamedQueryContext(ctx, query, c)
	if err != nil {
		if isUniqueViolation(err, "rent_contracts_one_active_per_tenant") {
			return ierr.WithError(err).
				WithHint("Tenant already has an active rent contract").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create rent contract").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(c); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to scan rent contract").
				Mark(ierr.ErrDatabase)
		}
	}

	return nil
}

func (r *contractRepository) Get(ctx context.Context, id string) (*contract.RentContract, error) {
	query := `
		SELECT * FROM rent_contracts
		WHERE id = :id
		AND status = :status`

	params := map[string]interface{}{
		"id":     id,
		"status": types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query rent contract").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("contract not found").
			WithHintf("Rent contract %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var c contract.RentContract
	if err := rows.StructScan(&c); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan rent contract").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *contractRepository) Update(ctx context.Context, c *contract.RentContract) error {
	query := `
		UPDATE rent_contracts
		SET
			monthly_amount = :monthly_amount,
			expiry_date = :expiry_date,
			payout_type = :payout_type,
			next_payment_due = :next_payment_due,
			transition_start = :transition_start,
			contract_status = :contract_status,
			updated_at = NOW(),
			updated_by = :updated_by
		WHERE id = :id
		AND status = :status`

	params := map[string]interface{}{
		"id":               c.ID,
		"monthly_amount":   c.MonthlyAmount,
		"expiry_date":      c.ExpiryDate,
		"payout_type":      c.PayoutType,
		"next_payment_due": c.NextPaymentDue,
		"transition_start": c.TransitionStart,
		"contract_status":  c.ContractStatus,
		"updated_by":       types.GetUserID(ctx),
		"status":           types.StatusPublished,
	}

	r.logger.Debugw("updating rent contract",
		"contract_id", c.ID,
		"contract_status", c.ContractStatus,
	)

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update rent contract").
			Mark(ierr.ErrDatabase)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to get rows affected").
			Mark(ierr.ErrDatabase)
	}
	if rowsAffected == 0 {
		return ierr.NewError("contract not found").
			WithHintf("Rent contract %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *contractRepository) List(ctx context.Context, filter *types.ContractFilter) ([]*contract.RentContract, error) {
	if filter == nil {
		filter = types.NewNoLimitContractFilter()
	}
	where, params := contractWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT * FROM rent_contracts
		WHERE %s
		ORDER BY created_at DESC`, where)

	if !filter.IsUnlimited() {
		query += " LIMIT :limit OFFSET :offset"
		params["limit"] = filter.GetLimit()
		params["offset"] = filter.GetOffset()
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query rent contracts").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var contracts []*contract.RentContract
	for rows.Next() {
		var c contract.RentContract
		if err := rows.StructScan(&c); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan rent contract").
				Mark(ierr.ErrDatabase)
		}
		contracts = append(contracts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Error iterating rent contract rows").
			Mark(ierr.ErrDatabase)
	}

	return contracts, nil
}

func (r *contractRepository) Count(ctx context.Context, filter *types.ContractFilter) (int, error) {
	where, params := contractWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM rent_contracts WHERE %s`, where)

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count rent contracts").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to scan contract count").
				Mark(ierr.ErrDatabase)
		}
	}
	return count, nil
}

func (r *contractRepository) GetActiveByTenant(ctx context.Context, tenantID string) (*contract.RentContract, error) {
	query := `
		SELECT * FROM rent_contracts
		WHERE tenant_id = :tenant_id
		AND contract_status = :contract_status
		AND status = :status`

	params := map[string]interface{}{
		"tenant_id":       tenantID,
		"contract_status": types.ContractStatusActive,
		"status":          types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query active contract").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("no active contract").
			WithHintf("Tenant %s has no active rent contract", tenantID).
			Mark(ierr.ErrNotFound)
	}

	var c contract.RentContract
	if err := rows.StructScan(&c); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan rent contract").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *contractRepository) ListDue(ctx context.Context, asOf time.Time) ([]*contract.RentContract, error) {
	query := `
		SELECT * FROM rent_contracts
		WHERE contract_status = :contract_status
		AND next_payment_due <= :as_of
		AND status = :status
		ORDER BY next_payment_due ASC`

	params := map[string]interface{}{
		"contract_status": types.ContractStatusActive,
		"as_of":           asOf,
		"status":          types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query due contracts").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var contracts []*contract.RentContract
	for rows.Next() {
		var c contract.RentContract
		if err := rows.StructScan(&c); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan rent contract").
				Mark(ierr.ErrDatabase)
		}
		contracts = append(contracts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Error iterating rent contract rows").
			Mark(ierr.ErrDatabase)
	}

	return contracts, nil
}

// contractWhereClause builds the conjunctive filter clause shared by List
// and Count.
func contractWhereClause(filter *types.ContractFilter) (string, map[string]interface{}) {
	conditions := []string{"status = :status"}
	params := map[string]interface{}{
		"status": types.StatusPublished,
	}

	if filter == nil {
		return strings.Join(conditions, " AND "), params
	}

	if filter.TenantID != nil {
		conditions = append(conditions, "tenant_id = :tenant_id")
		params["tenant_id"] = *filter.TenantID
	}
	if filter.LandlordID != nil {
		conditions = append(conditions, "landlord_id = :landlord_id")
		params["landlord_id"] = *filter.LandlordID
	}
	if filter.PropertyID != nil {
		conditions = append(conditions, "property_id = :property_id")
		params["property_id"] = *filter.PropertyID
	}
	if filter.ContractStatus != nil {
		conditions = append(conditions, "contract_status = :contract_status")
		params["contract_status"] = *filter.ContractStatus
	}

	return strings.Join(conditions, " AND "), params
}
