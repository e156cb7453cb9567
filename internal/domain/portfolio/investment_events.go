package portfolio

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/investtrack/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInvestment = "Investment"

// Event type constants
const (
	EventTypeInvestmentCreated   = "InvestmentCreated"
	EventTypeInvestmentCancelled = "InvestmentCancelled"
)

// InvestmentCreatedEvent is published when a contribution is recorded
type InvestmentCreatedEvent struct {
	shared.BaseDomainEvent
	InvestmentID   uuid.UUID       `json:"investment_id"`
	UserID         uuid.UUID       `json:"user_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Amount         decimal.Decimal `json:"amount"`
	ExpectedReturn decimal.Decimal `json:"expected_return"`
}

// NewInvestmentCreatedEvent creates a new InvestmentCreatedEvent
func NewInvestmentCreatedEvent(inv *Investment) *InvestmentCreatedEvent {
	return &InvestmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestmentCreated, AggregateTypeInvestment, inv.ID),
		InvestmentID:    inv.ID,
		UserID:          inv.UserID,
		ProductID:       inv.ProductID,
		Amount:          inv.Amount,
		ExpectedReturn:  inv.ExpectedReturn,
	}
}

// InvestmentCancelledEvent is published when an investment is cancelled
type InvestmentCancelledEvent struct {
	shared.BaseDomainEvent
	InvestmentID uuid.UUID `json:"investment_id"`
	UserID       uuid.UUID `json:"user_id"`
}

// NewInvestmentCancelledEvent creates a new InvestmentCancelledEvent
func NewInvestmentCancelledEvent(inv *Investment) *InvestmentCancelledEvent {
	return &InvestmentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvestmentCancelled, AggregateTypeInvestment, inv.ID),
		InvestmentID:    inv.ID,
		UserID:          inv.UserID,
	}
}
