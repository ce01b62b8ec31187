package types

// NotificationKind is the business purpose of a queued notification.
type NotificationKind string

const (
	NotificationKindPaymentReminder NotificationKind = "payment_reminder"
	NotificationKindOverdueNotice   NotificationKind = "overdue_notice"
	NotificationKindEscrowReleased  NotificationKind = "escrow_released"
)

// NotificationStatus is the delivery state of a notification record.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)
