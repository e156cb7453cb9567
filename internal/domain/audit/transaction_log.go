package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/domain/shared"
)

// TransactionLog is one append-only record per handled API request.
// Entries are never updated or individually deleted.
type TransactionLog struct {
	shared.BaseEntity
	UserID       *uuid.UUID `gorm:"type:uuid;index"`
	Email        string     `gorm:"type:varchar(200)"`
	Endpoint     string     `gorm:"type:varchar(255);not null"`
	HTTPMethod   string     `gorm:"type:varchar(10);not null;index"`
	StatusCode   int        `gorm:"not null;index"`
	ErrorMessage string     `gorm:"type:text"`
	Timestamp    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TransactionLog) TableName() string {
	return "transaction_logs"
}

// NewTransactionLog captures the outcome of one request. userID and email
// are nil/empty for unauthenticated traffic; errorMessage is empty unless
// the response carried an error.
func NewTransactionLog(userID *uuid.UUID, email, endpoint, method string, statusCode int, errorMessage string) *TransactionLog {
	return &TransactionLog{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		Email:        email,
		Endpoint:     endpoint,
		HTTPMethod:   method,
		StatusCode:   statusCode,
		ErrorMessage: errorMessage,
		Timestamp:    time.Now(),
	}
}

// IsError reports whether the entry recorded a failed request
func (l *TransactionLog) IsError() bool {
	return l.StatusCode >= 400
}
