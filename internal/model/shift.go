package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift statuses.
const (
	ShiftStatusOpen   = "open"
	ShiftStatusClosed = "closed"
)

// Shift is one bounded cash-drawer session. At most one shift per tenant is
// open at a time; the invariant is enforced by ShiftService, which queries by
// status instead of holding the open shift in memory.
//
// CashSales and CashRefunds accumulate exclusively through sale processing;
// no other path touches an open shift's totals.
type Shift struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpenedBy    uuid.UUID       `gorm:"type:uuid;not null"`
	ClosedBy    *uuid.UUID      `gorm:"type:uuid"`
	Status      string          `gorm:"type:varchar(10);not null;default:'open';index"`
	StartFloat  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CashSales   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CashRefunds decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Closing figures, nil while the shift is open.
	ExpectedCash *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ActualCash   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Difference   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes        *string
	StartTime    time.Time
	EndTime      *time.Time
}
