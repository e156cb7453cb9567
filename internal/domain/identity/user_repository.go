package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail reports whether an account already uses the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save persists a user (insert or update)
	Save(ctx context.Context, user *User) error
}
