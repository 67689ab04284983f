package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/user"
	"github.com/actiontracker/tracker/modules/tracker/infrastructure/persistence/models"
	"github.com/actiontracker/tracker/pkg/composables"
)

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, `SELECT id, email, name, initials, created_at FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(&m.ID, &m.Email, &m.Name, &m.Initials, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan user row")
		}
		users = append(users, toDomainUser(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate user rows")
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, errors.Wrap(err, "failed to get transaction")
	}

	var m models.User
	if err := tx.QueryRow(ctx, `
		INSERT INTO users (email, name, initials)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, initials, created_at
	`, u.Email, u.Name, pointerToNullString(u.Initials)).Scan(
		&m.ID, &m.Email, &m.Name, &m.Initials, &m.CreatedAt,
	); err != nil {
		return user.User{}, errors.Wrapf(err, "failed to insert user %s", u.Email)
	}
	return toDomainUser(&m), nil
}
