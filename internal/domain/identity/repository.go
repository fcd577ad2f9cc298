package identity

import (
	"context"
)

// UserRepository persists dashboard users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// FindByEmail returns shared.ErrNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
