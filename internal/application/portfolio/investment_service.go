package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/identity"
	"github.com/investtrack/backend/internal/domain/portfolio"
	"github.com/investtrack/backend/internal/infrastructure/telemetry"
)

// Recommendation rule texts. Each rule fires independently; the order of
// the resulting slice follows the order the rules are evaluated in.
const (
	adviceReduceHighRisk = "Consider reducing high-risk investments to align with your conservative profile."
	adviceIncreaseRisk   = "You might want to increase high-risk investments for better returns."
	adviceDiversify      = "Consider diversifying your portfolio across different risk levels."

	analysisTooRisky        = "Your portfolio has higher risk exposure than your conservative profile suggests."
	analysisTooConservative = "Your portfolio could benefit from more high-risk investments for better returns."
	analysisAligned         = "Your portfolio risk distribution aligns well with your risk appetite."
)

// InvestmentService handles investment business operations
type InvestmentService struct {
	investmentRepo portfolio.InvestmentRepository
	productRepo    catalog.ProductRepository
	userRepo       identity.UserRepository
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(
	investmentRepo portfolio.InvestmentRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
) *InvestmentService {
	return &InvestmentService{
		investmentRepo: investmentRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
	}
}

// Invest creates a new investment in a product for the user
func (s *InvestmentService) Invest(ctx context.Context, userID uuid.UUID, req InvestRequest) (*InvestmentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "investment", "invest",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, userID),
		telemetry.WithAttribute(telemetry.SpanAttrProductID, req.ProductID),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.Amount),
	)
	defer span.End()

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrInvestmentType, product.InvestmentType)
	telemetry.SetAttribute(span, telemetry.SpanAttrRiskLevel, product.RiskLevel)

	investment, err := portfolio.NewInvestment(userID, product, req.Amount)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.investmentRepo.Save(ctx, investment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrInvestmentID, investment.ID)

	investment.Product = product
	response := ToInvestmentResponse(investment)
	return &response, nil
}

// Cancel cancels an ACTIVE investment owned by the user. Foreign, already
// cancelled and missing investments all surface as not found.
func (s *InvestmentService) Cancel(ctx context.Context, userID, investmentID uuid.UUID) (*InvestmentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "investment", "cancel",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, userID),
		telemetry.WithAttribute(telemetry.SpanAttrInvestmentID, investmentID),
	)
	defer span.End()

	investment, err := s.investmentRepo.FindActiveByID(ctx, userID, investmentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := investment.Cancel(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.investmentRepo.Save(ctx, investment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	response := ToInvestmentResponse(investment)
	return &response, nil
}

// GetByID returns a single investment owned by the user
func (s *InvestmentService) GetByID(ctx context.Context, userID, investmentID uuid.UUID) (*InvestmentResponse, error) {
	investment, err := s.investmentRepo.FindByID(ctx, userID, investmentID)
	if err != nil {
		return nil, err
	}
	response := ToInvestmentResponse(investment)
	return &response, nil
}

// Portfolio returns the user's investments with aggregate totals
func (s *InvestmentService) Portfolio(ctx context.Context, userID uuid.UUID) (*PortfolioResponse, error) {
	investments, err := s.investmentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalInvested := decimal.Zero
	totalExpectedReturn := decimal.Zero
	active := 0
	for i := range investments {
		totalInvested = totalInvested.Add(investments[i].Amount)
		if investments[i].IsActive() {
			totalExpectedReturn = totalExpectedReturn.Add(investments[i].ExpectedReturn)
			active++
		}
	}

	return &PortfolioResponse{
		TotalInvested:       totalInvested,
		TotalExpectedReturn: totalExpectedReturn,
		ActiveInvestments:   active,
		TotalInvestments:    len(investments),
		Investments:         ToInvestmentResponses(investments),
	}, nil
}

// Insights derives the rule-based portfolio analysis over the user's
// active investments
func (s *InvestmentService) Insights(ctx context.Context, userID uuid.UUID) (*InsightsResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	investments, err := s.investmentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	riskDistribution := make(map[string]decimal.Decimal)
	typeDistribution := make(map[string]decimal.Decimal)
	totalInvested := decimal.Zero
	active := 0
	for i := range investments {
		inv := &investments[i]
		if !inv.IsActive() || inv.Product == nil {
			continue
		}
		risk := string(inv.Product.RiskLevel)
		kind := string(inv.Product.InvestmentType)
		riskDistribution[risk] = riskDistribution[risk].Add(inv.Amount)
		typeDistribution[kind] = typeDistribution[kind].Add(inv.Amount)
		totalInvested = totalInvested.Add(inv.Amount)
		active++
	}

	return &InsightsResponse{
		RiskDistribution:  riskDistribution,
		TypeDistribution:  typeDistribution,
		TotalInvested:     totalInvested,
		ActiveInvestments: active,
		Recommendations:   adviseOnRisk(riskDistribution, user.RiskAppetite),
		RiskAnalysis:      analyzeRiskProfile(riskDistribution, user.RiskAppetite),
	}, nil
}

// adviseOnRisk evaluates three independent rules against the risk
// distribution. Zero, one or more may fire.
func adviseOnRisk(riskDistribution map[string]decimal.Decimal, appetite catalog.RiskLevel) []string {
	recommendations := []string{}

	high := riskDistribution[string(catalog.RiskLevelHigh)]
	low := riskDistribution[string(catalog.RiskLevelLow)]

	if appetite == catalog.RiskLevelLow && high.IsPositive() {
		recommendations = append(recommendations, adviceReduceHighRisk)
	}
	if appetite == catalog.RiskLevelHigh && low.GreaterThan(high) {
		recommendations = append(recommendations, adviceIncreaseRisk)
	}
	if len(riskDistribution) < 2 {
		recommendations = append(recommendations, adviceDiversify)
	}

	return recommendations
}

// analyzeRiskProfile returns a one-line narrative based on how much of the
// active portfolio sits in the HIGH band. An empty portfolio counts as 0%.
func analyzeRiskProfile(riskDistribution map[string]decimal.Decimal, appetite catalog.RiskLevel) string {
	total := decimal.Zero
	for _, amount := range riskDistribution {
		total = total.Add(amount)
	}

	highRiskPercentage := decimal.Zero
	if total.IsPositive() {
		high := riskDistribution[string(catalog.RiskLevelHigh)]
		highRiskPercentage = high.Div(total).Mul(decimal.NewFromInt(100))
	}

	switch {
	case appetite == catalog.RiskLevelLow && highRiskPercentage.GreaterThan(decimal.NewFromInt(20)):
		return analysisTooRisky
	case appetite == catalog.RiskLevelHigh && highRiskPercentage.LessThan(decimal.NewFromInt(50)):
		return analysisTooConservative
	default:
		return analysisAligned
	}
}
