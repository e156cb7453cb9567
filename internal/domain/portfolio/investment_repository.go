package portfolio

import (
	"context"

	"github.com/google/uuid"
)

// InvestmentRepository defines the interface for investment persistence.
// Reads are always scoped to the owning user; there is no cross-user query.
type InvestmentRepository interface {
	// FindByID finds an investment owned by the given user, product preloaded
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Investment, error)

	// FindActiveByID finds an ACTIVE investment owned by the given user.
	// Ownership and status are checked in a single lookup so callers cannot
	// distinguish a foreign or cancelled investment from a missing one.
	FindActiveByID(ctx context.Context, userID, id uuid.UUID) (*Investment, error)

	// FindByUser returns all of a user's investments, product preloaded,
	// newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Investment, error)

	// ExistsForProduct reports whether any investment references the product
	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)

	// Save persists an investment (insert or update)
	Save(ctx context.Context, investment *Investment) error
}
