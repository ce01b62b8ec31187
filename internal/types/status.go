package types

// Status tracks the row lifecycle of a persisted resource. It is independent
// of any business status a resource carries (e.g. a contract's ContractStatus):
// rows are never physically deleted, only marked.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
