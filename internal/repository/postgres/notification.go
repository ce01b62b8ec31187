package postgres

import (
	"context"
	"time"

	"github.com/leaseflow/leaseflow/internal/domain/notification"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/postgres"
	"github.com/leaseflow/leaseflow/internal/types"
)

type notificationRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewNotificationRepository creates a new instance of notification repository
func NewNotificationRepository(db *postgres.DB, logger *logger.Logger) notification.Repository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (
			id, recipient_id, contract_id, kind, subject, body,
			notification_status, sent_at, error_message,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :recipient_id, :contract_id, :kind, :subject, :body,
			:notification_status, :sent_at, :error_message,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create notification").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *notificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	query := `
		UPDATE notifications
		SET
			notification_status = :notification_status,
			sent_at = :sent_at,
			error_message = :error_message,
			updated_at = NOW(),
			updated_by = :updated_by
		WHERE id = :id
		AND status = :status`

	params := map[string]interface{}{
		"id":                  n.ID,
		"notification_status": n.NotificationStatus,
		"sent_at":             n.SentAt,
		"error_message":       n.ErrorMessage,
		"updated_by":          types.GetUserID(ctx),
		"status":              types.StatusPublished,
	}

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update notification").
			Mark(ierr.ErrDatabase)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to get rows affected").
			Mark(ierr.ErrDatabase)
	}
	if rowsAffected == 0 {
		return ierr.NewError("notification not found").
			WithHintf("Notification %s was not found", n.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *notificationRepository) CountPending(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE notification_status = :notification_status
		AND status = :status`

	params := map[string]interface{}{
		"notification_status": types.NotificationStatusPending,
		"status":              types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count pending notifications").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to scan notification count").
				Mark(ierr.ErrDatabase)
		}
	}
	return count, nil
}

func (r *notificationRepository) DeleteOldFinished(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		DELETE FROM notifications
		WHERE notification_status IN (:sent, :failed)
		AND created_at < :cutoff`

	params := map[string]interface{}{
		"sent":   types.NotificationStatusSent,
		"failed": types.NotificationStatusFailed,
		"cutoff": cutoff,
	}

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to delete old notifications").
			Mark(ierr.ErrDatabase)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to get rows affected").
			Mark(ierr.ErrDatabase)
	}
	return int(rowsAffected), nil
}

func (r *notificationRepository) FailStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		UPDATE notifications
		SET
			notification_status = :failed,
			error_message = 'expired before delivery',
			updated_at = NOW(),
			updated_by = :updated_by
		WHERE notification_status = :pending
		AND created_at < :cutoff
		AND status = :status`

	params := map[string]interface{}{
		"failed":     types.NotificationStatusFailed,
		"pending":    types.NotificationStatusPending,
		"cutoff":     cutoff,
		"updated_by": types.GetUserID(ctx),
		"status":     types.StatusPublished,
	}

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to expire stale notifications").
			Mark(ierr.ErrDatabase)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to get rows affected").
			Mark(ierr.ErrDatabase)
	}
	return int(rowsAffected), nil
}
