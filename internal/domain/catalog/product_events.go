package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/investtrack/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "InvestmentProduct"

// Event type constants
const (
	EventTypeProductCreated = "InvestmentProductCreated"
	EventTypeProductUpdated = "InvestmentProductUpdated"
	EventTypeProductDeleted = "InvestmentProductDeleted"
)

// ProductCreatedEvent is published when a new product is added to the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	Name           string          `json:"name"`
	InvestmentType InvestmentType  `json:"investment_type"`
	RiskLevel      RiskLevel       `json:"risk_level"`
	AnnualYield    decimal.Decimal `json:"annual_yield"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		InvestmentType:  product.InvestmentType,
		RiskLevel:       product.RiskLevel,
		AnnualYield:     product.AnnualYield,
	}
}

// ProductUpdatedEvent is published when a product's terms change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		RiskLevel:       product.RiskLevel,
	}
}
