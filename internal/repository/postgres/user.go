package postgres

import (
	"context"

	"github.com/leaseflow/leaseflow/internal/domain/user"
	ierr "github.com/leaseflow/leaseflow/internal/errors"
	"github.com/leaseflow/leaseflow/internal/logger"
	"github.com/leaseflow/leaseflow/internal/postgres"
	"github.com/leaseflow/leaseflow/internal/types"
)

type userRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewUserRepository creates a new instance of user repository
func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) Get(ctx context.Context, id string) (*user.User, error) {
	query := `
		SELECT * FROM users
		WHERE id = :id
		AND status = :status`

	params := map[string]interface{}{
		"id":     id,
		"status": types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query user").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("user not found").
			WithHintf("User %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var u user.User
	if err := rows.StructScan(&u); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan user").
			Mark(ierr.ErrDatabase)
	}
	return &u, nil
}
