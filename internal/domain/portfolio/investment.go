package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/shared"
)

// InvestmentStatus represents the lifecycle state of an investment.
// The only transition is ACTIVE to CANCELLED.
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "ACTIVE"
	InvestmentStatusCancelled InvestmentStatus = "CANCELLED"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// Investment records a user's contribution into a catalog product.
// ExpectedReturn and MaturityDate are fixed at creation and never recomputed,
// even if the product's terms later change.
type Investment struct {
	shared.BaseAggregateRoot
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	ExpectedReturn decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	InvestedAt     time.Time        `gorm:"not null"`
	MaturityDate   time.Time        `gorm:"not null"`
	Status         InvestmentStatus `gorm:"type:varchar(20);not null;index"`

	Product *catalog.Product `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Investment) TableName() string {
	return "investments"
}

// NewInvestment validates the amount against the product's contribution
// bounds and creates an ACTIVE investment with its projection fixed.
func NewInvestment(userID uuid.UUID, product *catalog.Product, amount decimal.Decimal) (*Investment, error) {
	if product == nil {
		return nil, shared.ErrNotFound
	}
	if err := product.CheckContribution(amount); err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &Investment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ProductID:         product.ID,
		Amount:            amount,
		ExpectedReturn:    ExpectedReturn(amount, product.AnnualYield, product.TenureMonths),
		InvestedAt:        now,
		MaturityDate:      MaturityDate(now, product.TenureMonths),
		Status:            InvestmentStatusActive,
	}

	inv.AddDomainEvent(NewInvestmentCreatedEvent(inv))

	return inv, nil
}

// ExpectedReturn projects the simple linear return:
// amount * (annualYield/100) * (tenureMonths/12).
func ExpectedReturn(amount, annualYield decimal.Decimal, tenureMonths int) decimal.Decimal {
	return amount.
		Mul(annualYield.Div(hundred)).
		Mul(decimal.NewFromInt(int64(tenureMonths)).Div(monthsInYear))
}

// MaturityDate adds the tenure in calendar months. Month-end overflow
// normalizes forward per time.AddDate, so Jan 31 plus one month lands in
// early March rather than clamping to Feb 28.
func MaturityDate(from time.Time, tenureMonths int) time.Time {
	return from.AddDate(0, tenureMonths, 0)
}

// IsActive reports whether the investment still counts toward active totals
func (i *Investment) IsActive() bool {
	return i.Status == InvestmentStatusActive
}

// Cancel transitions an ACTIVE investment to CANCELLED. Anything else is
// reported as not found so a cancelled investment is indistinguishable from
// a missing one to the caller.
func (i *Investment) Cancel() error {
	if i.Status != InvestmentStatusActive {
		return shared.ErrNotFound
	}

	i.Status = InvestmentStatusCancelled
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvestmentCancelledEvent(i))

	return nil
}
