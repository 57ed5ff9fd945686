package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses, derived from line quantities. Monotonic:
// QuantityReceived never decreases, so the status never moves backwards.
const (
	POStatusPending  = "pending"
	POStatusPartial  = "partial"
	POStatusReceived = "received"
)

// PurchaseOrder tracks ordered vs. received quantities against a supplier.
// TotalCost and Status are derived and recomputed on every mutation.
type PurchaseOrder struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status       string          `gorm:"type:varchar(10);not null;default:'pending'"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes        *string
	DateExpected *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
	Supplier *Supplier           `gorm:"foreignKey:SupplierID"`
}

// Received reports whether every line is fully received.
func (po *PurchaseOrder) Received() bool {
	for _, item := range po.Items {
		if item.QuantityReceived < item.QuantityOrdered {
			return false
		}
	}
	return len(po.Items) > 0
}

// DeriveStatus recomputes the aggregate status from line quantities.
func (po *PurchaseOrder) DeriveStatus() string {
	if po.Received() {
		return POStatusReceived
	}
	for _, item := range po.Items {
		if item.QuantityReceived > 0 {
			return POStatusPartial
		}
	}
	return POStatusPending
}

// PurchaseOrderItem is one ordered line. CostPrice is a snapshot taken when
// the order was placed.
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID        *uuid.UUID      `gorm:"type:uuid"`
	QuantityOrdered  int             `gorm:"not null"`
	QuantityReceived int             `gorm:"not null;default:0"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
