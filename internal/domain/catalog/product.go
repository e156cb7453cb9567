package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/investtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvestmentType classifies a product by instrument kind
type InvestmentType string

const (
	InvestmentTypeBond       InvestmentType = "BOND"
	InvestmentTypeMutualFund InvestmentType = "MF"
	InvestmentTypeFixedDep   InvestmentType = "FD"
	InvestmentTypeETF        InvestmentType = "ETF"
)

// RiskLevel is a product's assigned risk band. Users declare their appetite
// on the same scale, which is what makes recommendation matching a plain
// equality check.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelModerate RiskLevel = "MODERATE"
	RiskLevelHigh     RiskLevel = "HIGH"
)

// DefaultMinInvestment applies when a product is created without an explicit
// minimum contribution.
var DefaultMinInvestment = decimal.NewFromInt(1000)

// Product represents an investment product offered in the catalog.
// It is the aggregate root for catalog operations.
type Product struct {
	shared.BaseAggregateRoot
	Name           string           `gorm:"type:varchar(255);not null"`
	InvestmentType InvestmentType   `gorm:"type:varchar(20);not null;index"`
	TenureMonths   int              `gorm:"not null"`
	AnnualYield    decimal.Decimal  `gorm:"type:decimal(10,4);not null"`
	RiskLevel      RiskLevel        `gorm:"type:varchar(20);not null;index"`
	MinInvestment  decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	MaxInvestment  *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Description    string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "investment_products"
}

// NewProduct creates a new investment product. A nil maxInvestment means the
// contribution is unbounded above; a nil minInvestment falls back to the
// catalog default.
func NewProduct(
	name string,
	investmentType InvestmentType,
	tenureMonths int,
	annualYield decimal.Decimal,
	riskLevel RiskLevel,
	minInvestment *decimal.Decimal,
	maxInvestment *decimal.Decimal,
	description string,
) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateInvestmentType(investmentType); err != nil {
		return nil, err
	}
	if err := validateTenure(tenureMonths); err != nil {
		return nil, err
	}
	if annualYield.IsNegative() {
		return nil, shared.NewDomainError("INVALID_YIELD", "Annual yield cannot be negative")
	}
	if err := ValidateRiskLevel(riskLevel); err != nil {
		return nil, err
	}

	min := DefaultMinInvestment
	if minInvestment != nil {
		min = *minInvestment
	}
	if min.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BOUNDS", "Minimum investment cannot be negative")
	}
	if maxInvestment != nil && maxInvestment.LessThan(min) {
		return nil, shared.NewDomainError("INVALID_BOUNDS", "Maximum investment cannot be below the minimum")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		InvestmentType:    investmentType,
		TenureMonths:      tenureMonths,
		AnnualYield:       annualYield,
		RiskLevel:         riskLevel,
		MinInvestment:     min,
		MaxInvestment:     maxInvestment,
		Description:       description,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces the product's mutable details. Products already referenced
// by investments should not change terms; the application layer enforces that.
func (p *Product) Update(
	name string,
	investmentType InvestmentType,
	tenureMonths int,
	annualYield decimal.Decimal,
	riskLevel RiskLevel,
	minInvestment decimal.Decimal,
	maxInvestment *decimal.Decimal,
	description string,
) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateInvestmentType(investmentType); err != nil {
		return err
	}
	if err := validateTenure(tenureMonths); err != nil {
		return err
	}
	if annualYield.IsNegative() {
		return shared.NewDomainError("INVALID_YIELD", "Annual yield cannot be negative")
	}
	if err := ValidateRiskLevel(riskLevel); err != nil {
		return err
	}
	if minInvestment.IsNegative() {
		return shared.NewDomainError("INVALID_BOUNDS", "Minimum investment cannot be negative")
	}
	if maxInvestment != nil && maxInvestment.LessThan(minInvestment) {
		return shared.NewDomainError("INVALID_BOUNDS", "Maximum investment cannot be below the minimum")
	}

	p.Name = strings.TrimSpace(name)
	p.InvestmentType = investmentType
	p.TenureMonths = tenureMonths
	p.AnnualYield = annualYield
	p.RiskLevel = riskLevel
	p.MinInvestment = minInvestment
	p.MaxInvestment = maxInvestment
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// CheckContribution verifies that an amount lies within the product's
// contribution bounds. The error message carries the violated bound so the
// caller can surface it directly.
func (p *Product) CheckContribution(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Investment amount must be positive")
	}
	if amount.LessThan(p.MinInvestment) {
		return shared.NewDomainError("AMOUNT_BELOW_MINIMUM",
			fmt.Sprintf("Minimum investment amount is %s", p.MinInvestment.String()))
	}
	if p.MaxInvestment != nil && amount.GreaterThan(*p.MaxInvestment) {
		return shared.NewDomainError("AMOUNT_ABOVE_MAXIMUM",
			fmt.Sprintf("Maximum investment amount is %s", p.MaxInvestment.String()))
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}

func validateInvestmentType(t InvestmentType) error {
	switch t {
	case InvestmentTypeBond, InvestmentTypeMutualFund, InvestmentTypeFixedDep, InvestmentTypeETF:
		return nil
	}
	return shared.NewDomainError("INVALID_TYPE", "Investment type must be one of BOND, MF, FD, ETF")
}

func validateTenure(months int) error {
	if months <= 0 {
		return shared.NewDomainError("INVALID_TENURE", "Tenure must be a positive number of months")
	}
	return nil
}

// ValidateRiskLevel reports whether the given risk level is a known band.
// Exported because user risk appetite shares the enumeration.
func ValidateRiskLevel(level RiskLevel) error {
	switch level {
	case RiskLevelLow, RiskLevelModerate, RiskLevelHigh:
		return nil
	}
	return shared.NewDomainError("INVALID_RISK_LEVEL", "Risk level must be one of LOW, MODERATE, HIGH")
}
