package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/identity"
	"github.com/investtrack/backend/internal/domain/portfolio"
	"github.com/investtrack/backend/internal/domain/shared"
	"github.com/investtrack/backend/internal/infrastructure/telemetry"
)

const maxRecommendations = 5

// recommendationTemplates maps a risk appetite to its fixed advisory message.
// These are plain lookup strings, nothing is inferred.
var recommendationTemplates = map[catalog.RiskLevel]string{
	catalog.RiskLevelLow:      "Based on your conservative risk profile, we recommend these stable investment options with guaranteed returns.",
	catalog.RiskLevelModerate: "Your balanced approach to risk makes these diversified products ideal for steady growth over time.",
	catalog.RiskLevelHigh:     "With your appetite for higher returns, these products offer the best potential gains while managing risk.",
}

const recommendationFallback = "Here are some recommended products for you."

// ProductService handles investment product business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	userRepo       identity.UserRepository
	investmentRepo portfolio.InvestmentRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	investmentRepo portfolio.InvestmentRepository,
) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		userRepo:       userRepo,
		investmentRepo: investmentRepo,
	}
}

// Create creates a new investment product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(
		req.Name,
		catalog.InvestmentType(req.InvestmentType),
		req.TenureMonths,
		req.AnnualYield,
		catalog.RiskLevel(req.RiskLevel),
		req.MinInvestment,
		req.MaxInvestment,
		req.Description,
	)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID returns a single product
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns products matching the filter plus the total count
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 || domainFilter.PageSize > 100 {
		domainFilter.PageSize = 20
	}
	if filter.InvestmentType != "" {
		domainFilter.Filters["investment_type"] = filter.InvestmentType
	}
	if filter.RiskLevel != "" {
		domainFilter.Filters["risk_level"] = filter.RiskLevel
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update replaces a product's terms. Products already referenced by an
// investment are frozen so existing projections stay truthful.
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	referenced, err := s.investmentRepo.ExistsForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if referenced {
		return nil, shared.NewDomainError("PRODUCT_IN_USE",
			"Cannot modify a product that has investments")
	}

	min := catalog.DefaultMinInvestment
	if req.MinInvestment != nil {
		min = *req.MinInvestment
	}
	if err := product.Update(
		req.Name,
		catalog.InvestmentType(req.InvestmentType),
		req.TenureMonths,
		req.AnnualYield,
		catalog.RiskLevel(req.RiskLevel),
		min,
		req.MaxInvestment,
		req.Description,
	); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product that no investment references
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}

	referenced, err := s.investmentRepo.ExistsForProduct(ctx, productID)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("PRODUCT_IN_USE",
			"Cannot delete a product that has investments")
	}

	return s.productRepo.Delete(ctx, productID)
}

// Recommend returns up to five products whose risk level equals the user's
// appetite, highest yield first, with the template message for that appetite
func (s *ProductService) Recommend(ctx context.Context, userID uuid.UUID) (*RecommendationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "recommend",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, userID),
	)
	defer span.End()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrRiskLevel, user.RiskAppetite)

	products, err := s.productRepo.FindByRiskLevel(ctx, user.RiskAppetite, maxRecommendations)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	insight, ok := recommendationTemplates[user.RiskAppetite]
	if !ok {
		insight = recommendationFallback
	}

	return &RecommendationResponse{
		Recommendations: ToProductResponses(products),
		Insight:         insight,
	}, nil
}
