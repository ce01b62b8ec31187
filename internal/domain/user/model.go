package user

import "github.com/leaseflow/leaseflow/internal/types"

// User is the role-bearing identity consumed by the core before risky
// operations. User CRUD lives in the surrounding system.
type User struct {
	ID    string         `db:"id" json:"id"`
	Email string         `db:"email" json:"email"`
	Name  string         `db:"name" json:"name"`
	Role  types.UserRole `db:"role" json:"role"`

	types.BaseModel
}

// TableName returns the table name for users
func (u *User) TableName() string {
	return "users"
}
