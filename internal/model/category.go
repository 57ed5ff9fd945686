package model

import (
	"time"

	"github.com/google/uuid"
)

// RestoredCategoryName is the synthesized category that products recreated
// from historical sale snapshots are filed under.
const RestoredCategoryName = "Restored"

// Category classifies products. Tree management lives outside this core;
// the engine only needs lookup/create (restore flow) and cascade cleanup of
// join rows when a product is deleted.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_tenant_name;index"`
	Name      string    `gorm:"uniqueIndex:idx_categories_tenant_name;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductCategory is the explicit join row between products and categories.
// Declared so cascading deletes can remove memberships directly.
type ProductCategory struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
}
