package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/domain/audit"
)

// LogListFilter narrows transaction log listings
type LogListFilter struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	StatusCode int    `form:"status_code"`
	HTTPMethod string `form:"http_method"`
}

// LogResponse represents a transaction log entry in API responses
type LogResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	Email        string     `json:"email,omitempty"`
	Endpoint     string     `json:"endpoint"`
	HTTPMethod   string     `json:"http_method"`
	StatusCode   int        `json:"status_code"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// LogListResponse is a paginated page of log entries
type LogListResponse struct {
	Logs     []LogResponse `json:"logs"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
}

// ErrorGroup summarizes one status code's share of recent errors
type ErrorGroup struct {
	StatusCode       int       `json:"status_code"`
	Count            int       `json:"count"`
	Percentage       float64   `json:"percentage"`
	RecentOccurrence time.Time `json:"recent_occurrence"`
}

// ErrorSummaryResponse is the rule-based digest of recent error activity
type ErrorSummaryResponse struct {
	Message         string       `json:"message"`
	CommonErrors    []ErrorGroup `json:"common_errors"`
	Recommendations []string     `json:"recommendations"`
	TotalErrors     int          `json:"total_errors"`
}

// ToLogResponse converts a domain TransactionLog to LogResponse
func ToLogResponse(l *audit.TransactionLog) LogResponse {
	return LogResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		Email:        l.Email,
		Endpoint:     l.Endpoint,
		HTTPMethod:   l.HTTPMethod,
		StatusCode:   l.StatusCode,
		ErrorMessage: l.ErrorMessage,
		Timestamp:    l.Timestamp,
	}
}

// ToLogResponses converts a slice of domain TransactionLogs
func ToLogResponses(logs []audit.TransactionLog) []LogResponse {
	responses := make([]LogResponse, len(logs))
	for i := range logs {
		responses[i] = ToLogResponse(&logs[i])
	}
	return responses
}
