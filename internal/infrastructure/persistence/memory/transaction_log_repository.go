package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/domain/audit"
)

// DefaultLogCapacity bounds the in-memory audit ring when no capacity is
// configured
const DefaultLogCapacity = 1000

// TransactionLogRepository is a bounded in-memory implementation of
// audit.TransactionLogRepository. Once the ring is full the oldest entry
// is evicted on every append.
type TransactionLogRepository struct {
	mu       sync.RWMutex
	entries  []audit.TransactionLog
	capacity int
}

// NewTransactionLogRepository creates an in-memory log with the given
// capacity. Non-positive capacities fall back to DefaultLogCapacity.
func NewTransactionLogRepository(capacity int) *TransactionLogRepository {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &TransactionLogRepository{capacity: capacity}
}

// Append stores a new entry, evicting the oldest when the ring is full
func (r *TransactionLogRepository) Append(_ context.Context, entry *audit.TransactionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) >= r.capacity {
		r.entries = r.entries[1:]
	}
	r.entries = append(r.entries, *entry)
	return nil
}

// Find returns entries matching the filter, newest first, plus the total count
func (r *TransactionLogRepository) Find(_ context.Context, filter audit.LogFilter) ([]audit.TransactionLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []audit.TransactionLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if filter.StatusCode > 0 && entry.StatusCode != filter.StatusCode {
			continue
		}
		if filter.HTTPMethod != "" && entry.HTTPMethod != filter.HTTPMethod {
			continue
		}
		if filter.UserID != nil && (entry.UserID == nil || *entry.UserID != *filter.UserID) {
			continue
		}
		if filter.Email != "" && entry.Email != filter.Email {
			continue
		}
		matched = append(matched, entry)
	}

	total := int64(len(matched))
	if filter.Page > 0 && filter.PageSize > 0 {
		matched = paginate(matched, filter.Page, filter.PageSize)
	}
	return matched, total, nil
}

// FindErrors returns entries with status >= 400, oldest first, optionally
// restricted to one user
func (r *TransactionLogRepository) FindErrors(_ context.Context, userID *uuid.UUID) ([]audit.TransactionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []audit.TransactionLog
	for _, entry := range r.entries {
		if !entry.IsError() {
			continue
		}
		if userID != nil && (entry.UserID == nil || *entry.UserID != *userID) {
			continue
		}
		matched = append(matched, entry)
	}
	return matched, nil
}

// Len reports the current number of stored entries
func (r *TransactionLogRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
