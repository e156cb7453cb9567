package persistence

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/shared"
)

// seedProduct describes one catalog entry installed on first boot
type seedProduct struct {
	name           string
	investmentType catalog.InvestmentType
	tenureMonths   int
	annualYield    string
	riskLevel      catalog.RiskLevel
	minInvestment  int64
	maxInvestment  int64
	description    string
}

var seedProducts = []seedProduct{
	{
		name:           "Government Bond 2025",
		investmentType: catalog.InvestmentTypeBond,
		tenureMonths:   12,
		annualYield:    "5.2",
		riskLevel:      catalog.RiskLevelLow,
		minInvestment:  1000,
		maxInvestment:  100000,
		description:    "Sovereign bond with a fixed annual coupon",
	},
	{
		name:           "Equity Mutual Fund",
		investmentType: catalog.InvestmentTypeMutualFund,
		tenureMonths:   24,
		annualYield:    "8.5",
		riskLevel:      catalog.RiskLevelHigh,
		minInvestment:  500,
		maxInvestment:  500000,
		description:    "Diversified equity fund targeting long-term growth",
	},
	{
		name:           "Fixed Deposit Plus",
		investmentType: catalog.InvestmentTypeFixedDep,
		tenureMonths:   36,
		annualYield:    "6.8",
		riskLevel:      catalog.RiskLevelLow,
		minInvestment:  1000,
		maxInvestment:  1000000,
		description:    "Term deposit with a guaranteed rate",
	},
	{
		name:           "Tech Growth ETF",
		investmentType: catalog.InvestmentTypeETF,
		tenureMonths:   12,
		annualYield:    "7.3",
		riskLevel:      catalog.RiskLevelModerate,
		minInvestment:  100,
		maxInvestment:  200000,
		description:    "Exchange-traded fund tracking technology stocks",
	},
}

// Seeder installs the default product catalog on an empty store
type Seeder struct {
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(products catalog.ProductRepository, logger *zap.Logger) *Seeder {
	return &Seeder{products: products, logger: logger}
}

// SeedProducts inserts the default products. It is a no-op when the catalog
// already has entries, so repeated boots do not duplicate rows.
func (s *Seeder) SeedProducts(ctx context.Context) error {
	count, err := s.products.Count(ctx, shared.Filter{})
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		s.logger.Debug("product catalog already populated, skipping seed",
			zap.Int64("count", count))
		return nil
	}

	for _, sp := range seedProducts {
		min := decimal.NewFromInt(sp.minInvestment)
		max := decimal.NewFromInt(sp.maxInvestment)
		product, err := catalog.NewProduct(
			sp.name,
			sp.investmentType,
			sp.tenureMonths,
			decimal.RequireFromString(sp.annualYield),
			sp.riskLevel,
			&min,
			&max,
			sp.description,
		)
		if err != nil {
			return fmt.Errorf("invalid seed product %q: %w", sp.name, err)
		}
		if err := s.products.Save(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", sp.name, err)
		}
	}

	s.logger.Info("seeded default product catalog", zap.Int("products", len(seedProducts)))
	return nil
}
