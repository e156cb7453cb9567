package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/investtrack/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new investment product
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=255"`
	InvestmentType string           `json:"investment_type" binding:"required,oneof=BOND MF FD ETF"`
	TenureMonths   int              `json:"tenure_months" binding:"required,gt=0"`
	AnnualYield    decimal.Decimal  `json:"annual_yield" binding:"required"`
	RiskLevel      string           `json:"risk_level" binding:"required,oneof=LOW MODERATE HIGH"`
	MinInvestment  *decimal.Decimal `json:"min_investment"`
	MaxInvestment  *decimal.Decimal `json:"max_investment"`
	Description    string           `json:"description" binding:"max=2000"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=255"`
	InvestmentType string           `json:"investment_type" binding:"required,oneof=BOND MF FD ETF"`
	TenureMonths   int              `json:"tenure_months" binding:"required,gt=0"`
	AnnualYield    decimal.Decimal  `json:"annual_yield" binding:"required"`
	RiskLevel      string           `json:"risk_level" binding:"required,oneof=LOW MODERATE HIGH"`
	MinInvestment  *decimal.Decimal `json:"min_investment"`
	MaxInvestment  *decimal.Decimal `json:"max_investment"`
	Description    string           `json:"description" binding:"max=2000"`
}

// ProductListFilter narrows product listing
type ProductListFilter struct {
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	Search         string `form:"search"`
	InvestmentType string `form:"investment_type"`
	RiskLevel      string `form:"risk_level"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	InvestmentType string           `json:"investment_type"`
	TenureMonths   int              `json:"tenure_months"`
	AnnualYield    decimal.Decimal  `json:"annual_yield"`
	RiskLevel      string           `json:"risk_level"`
	MinInvestment  decimal.Decimal  `json:"min_investment"`
	MaxInvestment  *decimal.Decimal `json:"max_investment"`
	Description    string           `json:"description"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// RecommendationResponse pairs matched products with a templated message
// keyed by the user's risk appetite
type RecommendationResponse struct {
	Recommendations []ProductResponse `json:"recommendations"`
	Insight         string            `json:"insight"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		InvestmentType: string(p.InvestmentType),
		TenureMonths:   p.TenureMonths,
		AnnualYield:    p.AnnualYield,
		RiskLevel:      string(p.RiskLevel),
		MinInvestment:  p.MinInvestment,
		MaxInvestment:  p.MaxInvestment,
		Description:    p.Description,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products to ProductResponses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
