package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditapp "github.com/investtrack/backend/internal/application/audit"
	"github.com/investtrack/backend/internal/interfaces/http/middleware"
)

// LogHandler handles transaction log API endpoints
type LogHandler struct {
	BaseHandler
	logService *auditapp.LogService
}

// NewLogHandler creates a new LogHandler
func NewLogHandler(logService *auditapp.LogService) *LogHandler {
	return &LogHandler{
		logService: logService,
	}
}

// RegisterRoutes registers log routes on the API group
func (h *LogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	logs := rg.Group("/logs")
	{
		logs.GET("", h.List)
		logs.GET("/user/:userId", h.ListByUser)
		logs.GET("/email/:email", h.ListByEmail)
		logs.GET("/errors/summary", h.ErrorSummary)
		logs.GET("/errors/summary/:userId", h.ErrorSummaryByUser)
	}
}

// List returns a page of transaction logs, newest first
func (h *LogHandler) List(c *gin.Context) {
	var filter auditapp.LogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.logService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, page)
}

// ListByUser returns one user's transaction logs. Only the owner may read
// them; other callers get Forbidden.
func (h *LogHandler) ListByUser(c *gin.Context) {
	requesterID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var filter auditapp.LogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.logService.ListForUser(c.Request.Context(), requesterID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, page)
}

// ListByEmail returns the transaction logs recorded under the caller's own
// email address
func (h *LogHandler) ListByEmail(c *gin.Context) {
	requesterEmail := middleware.GetJWTEmail(c)
	if requesterEmail == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter auditapp.LogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.logService.ListForEmail(c.Request.Context(), requesterEmail, c.Param("email"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, page)
}

// ErrorSummary returns the digest of recent error responses
func (h *LogHandler) ErrorSummary(c *gin.Context) {
	summary, err := h.logService.ErrorSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// ErrorSummaryByUser returns the error digest scoped to one user. Only the
// owner may read it.
func (h *LogHandler) ErrorSummaryByUser(c *gin.Context) {
	requesterID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	summary, err := h.logService.ErrorSummaryForUser(c.Request.Context(), requesterID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
