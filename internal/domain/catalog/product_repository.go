package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByRiskLevel finds products in a risk band ordered by yield descending
	FindByRiskLevel(ctx context.Context, level RiskLevel, limit int) ([]Product, error)

	// Save persists a product (insert or update)
	Save(ctx context.Context, product *Product) error

	// Delete removes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
