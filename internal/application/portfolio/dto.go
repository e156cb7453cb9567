package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcatalog "github.com/investtrack/backend/internal/application/catalog"
	"github.com/investtrack/backend/internal/domain/portfolio"
)

// InvestRequest represents a request to invest in a product
type InvestRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// InvestmentResponse represents an investment in API responses
type InvestmentResponse struct {
	ID             uuid.UUID                   `json:"id"`
	UserID         uuid.UUID                   `json:"user_id"`
	ProductID      uuid.UUID                   `json:"product_id"`
	Amount         decimal.Decimal             `json:"amount"`
	ExpectedReturn decimal.Decimal             `json:"expected_return"`
	InvestedAt     time.Time                   `json:"invested_at"`
	MaturityDate   time.Time                   `json:"maturity_date"`
	Status         string                      `json:"status"`
	Product        *appcatalog.ProductResponse `json:"product,omitempty"`
}

// PortfolioResponse aggregates a user's investments.
// TotalInvested counts every investment ever made, cancelled included;
// TotalExpectedReturn only projects the active ones.
type PortfolioResponse struct {
	TotalInvested       decimal.Decimal      `json:"total_invested"`
	TotalExpectedReturn decimal.Decimal      `json:"total_expected_return"`
	ActiveInvestments   int                  `json:"active_investments"`
	TotalInvestments    int                  `json:"total_investments"`
	Investments         []InvestmentResponse `json:"investments"`
}

// InsightsResponse is the rule-based portfolio analysis over active
// investments only
type InsightsResponse struct {
	RiskDistribution  map[string]decimal.Decimal `json:"risk_distribution"`
	TypeDistribution  map[string]decimal.Decimal `json:"type_distribution"`
	TotalInvested     decimal.Decimal            `json:"total_invested"`
	ActiveInvestments int                        `json:"active_investments"`
	Recommendations   []string                   `json:"recommendations"`
	RiskAnalysis      string                     `json:"risk_analysis"`
}

// ToInvestmentResponse converts a domain Investment to InvestmentResponse
func ToInvestmentResponse(i *portfolio.Investment) InvestmentResponse {
	resp := InvestmentResponse{
		ID:             i.ID,
		UserID:         i.UserID,
		ProductID:      i.ProductID,
		Amount:         i.Amount,
		ExpectedReturn: i.ExpectedReturn,
		InvestedAt:     i.InvestedAt,
		MaturityDate:   i.MaturityDate,
		Status:         string(i.Status),
	}
	if i.Product != nil {
		product := appcatalog.ToProductResponse(i.Product)
		resp.Product = &product
	}
	return resp
}

// ToInvestmentResponses converts a slice of domain Investments
func ToInvestmentResponses(investments []portfolio.Investment) []InvestmentResponse {
	responses := make([]InvestmentResponse, len(investments))
	for i := range investments {
		responses[i] = ToInvestmentResponse(&investments[i])
	}
	return responses
}
