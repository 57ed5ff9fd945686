package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the authoritative stock record for one sellable item.
// When Variants is non-empty, Stock always equals the sum of variant stock,
// recomputed eagerly on every adjustment, never set independently.
type Product struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_tenant_sku;index"`
	SKU               string    `gorm:"column:sku;uniqueIndex:idx_products_tenant_sku;not null"`
	Name              string    `gorm:"index;not null"`
	Description       *string
	RetailPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock             int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:5"`
	SupplierID        *uuid.UUID      `gorm:"type:uuid;index"`
	Active            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Variants   []Variant  `gorm:"foreignKey:ProductID"`
	Categories []Category `gorm:"many2many:product_categories"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID"`
}

// TotalStock returns own stock plus variant stock. For variant products the
// two are the same number by invariant, so the own figure is authoritative.
func (p *Product) TotalStock() int {
	if len(p.Variants) == 0 {
		return p.Stock
	}
	sum := 0
	for _, v := range p.Variants {
		sum += v.Stock
	}
	return sum
}

// Variant is one concrete option combination of a parent product
// (e.g. "Red / L") carrying its own stock and prices.
type Variant struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU         string          `gorm:"column:sku;not null"`
	Name        string          `gorm:"not null"`
	Stock       int             `gorm:"not null;default:0"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
