package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price types recorded in the history log.
const (
	PriceTypeRetail = "retail"
	PriceTypeCost   = "cost"
)

// PriceHistoryEntry records one price change of a product or variant.
// Entries are immutable; the log is only ever appended to.
type PriceHistoryEntry struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID *uuid.UUID      `gorm:"type:uuid;index"`
	PriceType string          `gorm:"type:varchar(10);not null"` // retail | cost
	OldValue  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NewValue  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ActorID   uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time
}

func (PriceHistoryEntry) TableName() string { return "price_history" }
