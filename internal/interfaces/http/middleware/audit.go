package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/application/audit"
)

// AuditConfig holds configuration for the transaction log middleware
type AuditConfig struct {
	// LogService records the captured entries
	LogService *audit.LogService
	// SkipPaths are paths excluded from capture
	SkipPaths []string
	// RecordTimeout bounds the background write
	RecordTimeout time.Duration
}

const defaultAuditRecordTimeout = 5 * time.Second

// DefaultAuditConfig returns default audit middleware configuration
func DefaultAuditConfig(logService *audit.LogService) AuditConfig {
	return AuditConfig{
		LogService:    logService,
		SkipPaths:     []string{"/health", "/api/v1/health"},
		RecordTimeout: defaultAuditRecordTimeout,
	}
}

// Audit returns a middleware that records every handled request as a
// transaction log entry. Recording happens after the response is written
// and never fails the request.
func Audit(logService *audit.LogService) gin.HandlerFunc {
	return AuditWithConfig(DefaultAuditConfig(logService))
}

// AuditWithConfig returns the audit middleware with custom configuration
func AuditWithConfig(cfg AuditConfig) gin.HandlerFunc {
	if cfg.RecordTimeout <= 0 {
		cfg.RecordTimeout = defaultAuditRecordTimeout
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		method := c.Request.Method
		c.Next()

		status := c.Writer.Status()

		var errorMessage string
		if status >= 400 && len(c.Errors) > 0 {
			errorMessage = c.Errors[0].Error()
		}

		var userID *uuid.UUID
		if raw := GetJWTUserID(c); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				userID = &id
			}
		}
		email := GetJWTEmail(c)

		// The request context may already be cancelled once the response
		// is written, so the record gets its own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RecordTimeout)
		defer cancel()
		cfg.LogService.Record(ctx, userID, email, path, method, status, errorMessage)
	}
}
