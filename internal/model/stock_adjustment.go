package model

import (
	"time"

	"github.com/google/uuid"
)

// Ledger source types. SourceType/SourceID form the structured reference that
// ties an adjustment to the operation that produced it. Entries written by
// older releases carried the reference only inside the Reason text; cleanup
// paths must keep matching those (see repository.StockAdjustmentRepository).
const (
	SourceSale          = "sale"
	SourcePurchaseOrder = "purchase_order"
	SourceManual        = "manual"
)

// StockAdjustment is one immutable row of the stock ledger: a signed delta
// applied to a product (or one of its variants) with the reason it happened.
// Rows are never updated; they are removed only as referential cleanup when
// the owning sale or product is deleted.
type StockAdjustment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	VariantID   *uuid.UUID `gorm:"type:uuid;index"`
	Delta       int        `gorm:"not null"` // positive = in, negative = out
	StockBefore int        `gorm:"not null"`
	StockAfter  int        `gorm:"not null"`
	Reason      string     `gorm:"not null"`
	SourceType  string     `gorm:"type:varchar(20);not null;default:'manual'"`
	SourceID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
}
