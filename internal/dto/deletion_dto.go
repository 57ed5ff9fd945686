package dto

import "github.com/shopspring/decimal"

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// BulkDeleteResponse reports the partition outcome: products with active
// stock are skipped, the rest are deleted with full cascade.
type BulkDeleteResponse struct {
	Deleted int `json:"deleted"`
	Skipped int `json:"skipped"`
}

// RestoreItem is a historical sale line-item snapshot used to recreate a
// deleted product.
type RestoreItem struct {
	ProductID   string          `json:"product_id" validate:"required,uuid"`
	Name        string          `json:"name"       validate:"required"`
	SKU         string          `json:"sku"        validate:"required"`
	RetailPrice decimal.Decimal `json:"retail_price" validate:"required"`
	CostPrice   decimal.Decimal `json:"cost_price"   validate:"required"`
}

type RestoreProductsRequest struct {
	Items []RestoreItem `json:"items" validate:"required,min=1,dive"`
}

type RestoreProductsResponse struct {
	Restored []string `json:"restored"` // product ids brought back
}
