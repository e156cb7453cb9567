package audit

import (
	"context"

	"github.com/google/uuid"
)

// LogFilter narrows transaction log queries. Zero values mean "no filter".
type LogFilter struct {
	Page       int
	PageSize   int
	StatusCode int
	HTTPMethod string
	UserID     *uuid.UUID
	Email      string
}

// DefaultLogFilter returns a filter covering the first page
func DefaultLogFilter() LogFilter {
	return LogFilter{Page: 1, PageSize: 50}
}

// TransactionLogRepository defines the interface for audit log persistence
type TransactionLogRepository interface {
	// Append stores a new entry. The in-memory variant evicts the oldest
	// entry once its ring is full.
	Append(ctx context.Context, entry *TransactionLog) error

	// Find returns entries matching the filter, newest first, plus the
	// total count for pagination
	Find(ctx context.Context, filter LogFilter) ([]TransactionLog, int64, error)

	// FindErrors returns entries with status >= 400, oldest first so
	// grouping preserves first-seen order. A non-nil userID restricts the
	// result to that user's entries.
	FindErrors(ctx context.Context, userID *uuid.UUID) ([]TransactionLog, error)
}
