// Package memory provides in-memory repository implementations used for
// local development and tests where a database is not available.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/shared"
)

// ProductRepository is an in-memory implementation of catalog.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]catalog.Product
}

// NewProductRepository creates an empty in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[uuid.UUID]catalog.Product)}
}

// FindByID finds a product by its ID
func (r *ProductRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *ProductRepository) FindAll(_ context.Context, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sortProducts(matched, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		matched = paginate(matched, filter.Page, filter.PageSize)
	}
	return matched, nil
}

// FindByRiskLevel finds products in a risk band ordered by yield descending
func (r *ProductRepository) FindByRiskLevel(_ context.Context, level catalog.RiskLevel, limit int) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []catalog.Product
	for _, product := range r.products {
		if product.RiskLevel == level {
			matched = append(matched, product)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].AnnualYield.GreaterThan(matched[j].AnnualYield)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Save persists a product (insert or update)
func (r *ProductRepository) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}

// Delete removes a product
func (r *ProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// Count returns the number of products matching the filter
func (r *ProductRepository) Count(_ context.Context, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

func (r *ProductRepository) match(filter shared.Filter) []catalog.Product {
	matched := make([]catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if v, ok := filter.Filters["investment_type"]; ok && string(product.InvestmentType) != toString(v) {
			continue
		}
		if v, ok := filter.Filters["risk_level"]; ok && string(product.RiskLevel) != toString(v) {
			continue
		}
		matched = append(matched, product)
	}
	return matched
}

func sortProducts(products []catalog.Product, filter shared.Filter) {
	desc := strings.EqualFold(filter.OrderDir, "desc")
	switch filter.OrderBy {
	case "name":
		sort.Slice(products, func(i, j int) bool {
			if desc {
				return products[i].Name > products[j].Name
			}
			return products[i].Name < products[j].Name
		})
	case "annual_yield":
		sort.Slice(products, func(i, j int) bool {
			if desc {
				return products[i].AnnualYield.GreaterThan(products[j].AnnualYield)
			}
			return products[i].AnnualYield.LessThan(products[j].AnnualYield)
		})
	default:
		sort.Slice(products, func(i, j int) bool {
			return products[i].CreatedAt.Before(products[j].CreatedAt)
		})
	}
}

func paginate[T any](items []T, page, pageSize int) []T {
	offset := (page - 1) * pageSize
	if offset >= len(items) {
		return []T{}
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
