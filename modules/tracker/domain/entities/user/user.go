package user

import (
	"context"
	"time"
)

type User struct {
	ID        int
	Email     string
	Name      string
	Initials  *string
	CreatedAt time.Time
}

// InitialsOrEmpty returns the stored initials, or "" when none are set.
func (u User) InitialsOrEmpty() string {
	if u.Initials == nil {
		return ""
	}
	return *u.Initials
}

type Repository interface {
	// GetAll returns every user ordered by ascending id.
	GetAll(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) (User, error)
}
