package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	portfolioapp "github.com/investtrack/backend/internal/application/portfolio"
	"github.com/investtrack/backend/internal/interfaces/http/dto"
)

// InvestmentHandler handles investment and portfolio API endpoints
type InvestmentHandler struct {
	BaseHandler
	investmentService *portfolioapp.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *portfolioapp.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
	}
}

// RegisterRoutes registers investment routes on the API group
func (h *InvestmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	investments := rg.Group("/investments")
	{
		investments.POST("", h.Invest)
		investments.GET("/portfolio", h.Portfolio)
		investments.GET("/insights", h.Insights)
		investments.GET("/:id", h.Get)
		investments.DELETE("/:id", h.Cancel)
	}
}

// Invest creates a new investment for the caller
func (h *InvestmentHandler) Invest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req portfolioapp.InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	investment, err := h.investmentService.Invest(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, investment)
}

// Get returns one of the caller's investments by ID
func (h *InvestmentHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid investment ID")
		return
	}

	investment, err := h.investmentService.GetByID(c.Request.Context(), userID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, investment)
}

// Cancel cancels one of the caller's active investments
func (h *InvestmentHandler) Cancel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid investment ID")
		return
	}

	investment, err := h.investmentService.Cancel(c.Request.Context(), userID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, investment)
}

// Portfolio returns the caller's portfolio summary
func (h *InvestmentHandler) Portfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.investmentService.Portfolio(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Insights returns the rule-based analysis of the caller's active holdings
func (h *InvestmentHandler) Insights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	insights, err := h.investmentService.Insights(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insights)
}
