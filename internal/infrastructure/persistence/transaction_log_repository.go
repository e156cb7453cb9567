package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/investtrack/backend/internal/domain/audit"
)

// GormTransactionLogRepository implements TransactionLogRepository using GORM
type GormTransactionLogRepository struct {
	db *gorm.DB
}

// NewGormTransactionLogRepository creates a new GormTransactionLogRepository
func NewGormTransactionLogRepository(db *gorm.DB) *GormTransactionLogRepository {
	return &GormTransactionLogRepository{db: db}
}

// Append stores a new entry
func (r *GormTransactionLogRepository) Append(ctx context.Context, entry *audit.TransactionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Find returns entries matching the filter, newest first, plus the total count
func (r *GormTransactionLogRepository) Find(ctx context.Context, filter audit.LogFilter) ([]audit.TransactionLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.TransactionLog{})

	if filter.StatusCode > 0 {
		query = query.Where("status_code = ?", filter.StatusCode)
	}
	if filter.HTTPMethod != "" {
		query = query.Where("http_method = ?", filter.HTTPMethod)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []audit.TransactionLog
	if err := query.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindErrors returns entries with status >= 400, oldest first, optionally
// restricted to one user
func (r *GormTransactionLogRepository) FindErrors(ctx context.Context, userID *uuid.UUID) ([]audit.TransactionLog, error) {
	query := r.db.WithContext(ctx).Where("status_code >= ?", 400)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var entries []audit.TransactionLog
	if err := query.Order("timestamp ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
