package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex rc_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_RENT_CONTRACT  = "rc"
	UUID_PREFIX_ESCROW_BALANCE = "esc"
	UUID_PREFIX_RENT_PAYMENT   = "pay"
	UUID_PREFIX_NOTIFICATION   = "notif"
	UUID_PREFIX_PAYOUT_TXN     = "txn"
	UUID_PREFIX_USER           = "user"
)
