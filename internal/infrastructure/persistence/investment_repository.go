package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/investtrack/backend/internal/domain/portfolio"
	"github.com/investtrack/backend/internal/domain/shared"
)

// GormInvestmentRepository implements InvestmentRepository using GORM
type GormInvestmentRepository struct {
	db *gorm.DB
}

// NewGormInvestmentRepository creates a new GormInvestmentRepository
func NewGormInvestmentRepository(db *gorm.DB) *GormInvestmentRepository {
	return &GormInvestmentRepository{db: db}
}

// FindByID finds an investment owned by the given user
func (r *GormInvestmentRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*portfolio.Investment, error) {
	var investment portfolio.Investment
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &investment, nil
}

// FindActiveByID finds an ACTIVE investment owned by the given user.
// A single lookup keeps foreign, cancelled and missing investments
// indistinguishable to the caller.
func (r *GormInvestmentRepository) FindActiveByID(ctx context.Context, userID, id uuid.UUID) (*portfolio.Investment, error) {
	var investment portfolio.Investment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, portfolio.InvestmentStatusActive).
		First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &investment, nil
}

// FindByUser returns all of a user's investments, newest first
func (r *GormInvestmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]portfolio.Investment, error) {
	var investments []portfolio.Investment
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("invested_at DESC").
		Find(&investments).Error; err != nil {
		return nil, err
	}
	return investments, nil
}

// ExistsForProduct reports whether any investment references the product
func (r *GormInvestmentRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&portfolio.Investment{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists an investment (insert or update)
func (r *GormInvestmentRepository) Save(ctx context.Context, investment *portfolio.Investment) error {
	return r.db.WithContext(ctx).Omit("Product").Save(investment).Error
}
