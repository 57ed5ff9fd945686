package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale types. A mixed exchange with a net-positive total is recorded as a
// regular sale even when it contains negative-quantity return lines.
const (
	SaleTypeSale   = "sale"
	SaleTypeReturn = "return"
)

// Sale statuses. Derived from item returnedQuantity and monotonic: a sale
// never regresses from refunded.
const (
	SaleStatusCompleted         = "completed"
	SaleStatusPartiallyRefunded = "partially_refunded"
	SaleStatusRefunded          = "refunded"
)

// Sale is a finalized transaction: a snapshot of what was sold (or returned),
// how it was paid, and what it cost. Once created it is mutated only by later
// returns bumping item ReturnedQuantity and the derived Status.
type Sale struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null"`
	Type      string          `gorm:"type:varchar(10);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'completed'"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	COGS      decimal.Decimal `gorm:"type:decimal(12,2);not null;column:cogs"`
	CreatedAt time.Time       `gorm:"index"`
	UpdatedAt time.Time

	Items    []SaleItem    `gorm:"foreignKey:SaleID"`
	Payments []SalePayment `gorm:"foreignKey:SaleID"`
	User     *User         `gorm:"foreignKey:UserID"`
}

// SaleItem is one line of a sale. Name, SKU and both prices are snapshots
// taken at processing time so later product edits never rewrite history.
// Negative Quantity marks a return line; OriginalSaleID links it back to the
// sale it reverses.
type SaleItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID        *uuid.UUID      `gorm:"type:uuid"`
	Name             string          `gorm:"not null"`
	SKU              string          `gorm:"column:sku;not null"`
	Quantity         int             `gorm:"not null"` // signed: negative = return line
	RetailPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ReturnedQuantity int             `gorm:"not null;default:0"`
	OriginalSaleID   *uuid.UUID      `gorm:"type:uuid;index"`
}

// SalePayment is one payment (or refund, when Amount is negative) applied to
// a sale. Method "cash" is the only one routed to the open shift's drawer.
type SalePayment struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method string          `gorm:"type:varchar(20);not null"` // cash | card | transfer
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// PaymentMethodCash is the drawer-affecting payment method.
const PaymentMethodCash = "cash"
