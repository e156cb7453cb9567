package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/domain/portfolio"
	"github.com/investtrack/backend/internal/domain/shared"
)

// InvestmentRepository is an in-memory implementation of
// portfolio.InvestmentRepository
type InvestmentRepository struct {
	mu          sync.RWMutex
	investments map[uuid.UUID]portfolio.Investment
	products    *ProductRepository
}

// NewInvestmentRepository creates an empty in-memory investment repository.
// The product repository is used to preload product snapshots on reads.
func NewInvestmentRepository(products *ProductRepository) *InvestmentRepository {
	return &InvestmentRepository{
		investments: make(map[uuid.UUID]portfolio.Investment),
		products:    products,
	}
}

// FindByID finds an investment owned by the given user
func (r *InvestmentRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*portfolio.Investment, error) {
	r.mu.RLock()
	investment, ok := r.investments[id]
	r.mu.RUnlock()

	if !ok || investment.UserID != userID {
		return nil, shared.ErrNotFound
	}
	r.preload(ctx, &investment)
	return &investment, nil
}

// FindActiveByID finds an ACTIVE investment owned by the given user
func (r *InvestmentRepository) FindActiveByID(_ context.Context, userID, id uuid.UUID) (*portfolio.Investment, error) {
	r.mu.RLock()
	investment, ok := r.investments[id]
	r.mu.RUnlock()

	if !ok || investment.UserID != userID || investment.Status != portfolio.InvestmentStatusActive {
		return nil, shared.ErrNotFound
	}
	return &investment, nil
}

// FindByUser returns all of a user's investments, newest first
func (r *InvestmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]portfolio.Investment, error) {
	r.mu.RLock()
	var matched []portfolio.Investment
	for _, investment := range r.investments {
		if investment.UserID == userID {
			matched = append(matched, investment)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].InvestedAt.After(matched[j].InvestedAt)
	})
	for i := range matched {
		r.preload(ctx, &matched[i])
	}
	return matched, nil
}

// ExistsForProduct reports whether any investment references the product
func (r *InvestmentRepository) ExistsForProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, investment := range r.investments {
		if investment.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// Save persists an investment (insert or update)
func (r *InvestmentRepository) Save(_ context.Context, investment *portfolio.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *investment
	stored.Product = nil
	r.investments[investment.ID] = stored
	return nil
}

func (r *InvestmentRepository) preload(ctx context.Context, investment *portfolio.Investment) {
	if r.products == nil {
		return
	}
	if product, err := r.products.FindByID(ctx, investment.ProductID); err == nil {
		investment.Product = product
	}
}
