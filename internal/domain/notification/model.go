package notification

import (
	"time"

	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/types"
)

// Notification is a queued reminder or notice for a tenant or landlord.
// Records are kept after delivery so the cleanup sweep can prune them later.
type Notification struct {
	ID          string `db:"id" json:"id"`
	RecipientID string `db:"recipient_id" json:"recipient_id"`
	// The contract the notification is about
	ContractID string                 `db:"contract_id" json:"contract_id"`
	Kind       types.NotificationKind `db:"kind" json:"kind"`
	Subject    string                 `db:"subject" json:"subject"`
	Body       string                 `db:"body" json:"body"`
	// Delivery state; pending until the dispatcher picks it up
	NotificationStatus types.NotificationStatus `db:"notification_status" json:"notification_status"`
	SentAt             *time.Time               `db:"sent_at" json:"sent_at,omitempty"`
	ErrorMessage       *string                  `db:"error_message" json:"error_message,omitempty"`

	types.BaseModel
}

// Validate validates the notification fields
func (n *Notification) Validate() error {
	if n.RecipientID == "" {
		return ierr.NewError("invalid recipient id").
			WithHint("Recipient id is required").
			Mark(ierr.ErrValidation)
	}
	if n.Subject == "" {
		return ierr.NewError("invalid subject").
			WithHint("Subject is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TableName returns the table name for notifications
func (n *Notification) TableName() string {
	return "notifications"
}
