package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/domain/identity"
	"github.com/investtrack/backend/internal/domain/shared"
)

// UserRepository is an in-memory implementation of identity.UserRepository
type UserRepository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]identity.User
	byEmail map[string]uuid.UUID
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[uuid.UUID]identity.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &user, nil
}

// FindByEmail finds a user by normalized email
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	user := r.users[id]
	return &user, nil
}

// ExistsByEmail reports whether an account already uses the email
func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[normalizeEmail(email)]
	return ok, nil
}

// Save persists a user (insert or update)
func (r *UserRepository) Save(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.users[user.ID]; ok && prev.Email != user.Email {
		delete(r.byEmail, prev.Email)
	}
	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
