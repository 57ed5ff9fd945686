package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Active     string `form:"active"` // "false" = inactive, "all" = everything, default active
	SKU        string `form:"sku"`
	Name       string `form:"name"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateVariantRequest struct {
	SKU         string          `json:"sku"          validate:"required"`
	Name        string          `json:"name"         validate:"required"`
	Stock       int             `json:"stock"        validate:"min=0"`
	RetailPrice decimal.Decimal `json:"retail_price" validate:"required"`
	CostPrice   decimal.Decimal `json:"cost_price"   validate:"required"`
}

type CreateProductRequest struct {
	SKU               string                 `json:"sku"  validate:"required"`
	Name              string                 `json:"name" validate:"required"`
	Description       *string                `json:"description"`
	RetailPrice       decimal.Decimal        `json:"retail_price" validate:"required"`
	CostPrice         decimal.Decimal        `json:"cost_price"   validate:"required"`
	Stock             int                    `json:"stock"        validate:"min=0"`
	LowStockThreshold int                    `json:"low_stock_threshold" validate:"min=0"`
	SupplierID        *string                `json:"supplier_id"  validate:"omitempty,uuid"`
	Categories        []string               `json:"categories"`
	Variants          []CreateVariantRequest `json:"variants" validate:"dive"`
}

// UpdateVariantRequest carries new prices for an existing variant. Stock is
// deliberately absent; stock changes go through the ledger only.
type UpdateVariantRequest struct {
	ID          string          `json:"id" validate:"required,uuid"`
	Name        *string         `json:"name"`
	RetailPrice decimal.Decimal `json:"retail_price" validate:"required"`
	CostPrice   decimal.Decimal `json:"cost_price"   validate:"required"`
}

type UpdateProductRequest struct {
	Name              string                 `json:"name" validate:"required"`
	Description       *string                `json:"description"`
	RetailPrice       decimal.Decimal        `json:"retail_price" validate:"required"`
	CostPrice         decimal.Decimal        `json:"cost_price"   validate:"required"`
	LowStockThreshold int                    `json:"low_stock_threshold" validate:"min=0"`
	Variants          []UpdateVariantRequest `json:"variants" validate:"dive"`
}

type VariantResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Stock       int             `json:"stock"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
}

type ProductResponse struct {
	ID                string            `json:"id"`
	SKU               string            `json:"sku"`
	Name              string            `json:"name"`
	Description       *string           `json:"description,omitempty"`
	RetailPrice       decimal.Decimal   `json:"retail_price"`
	CostPrice         decimal.Decimal   `json:"cost_price"`
	Stock             int               `json:"stock"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	SupplierID        *string           `json:"supplier_id,omitempty"`
	Active            bool              `json:"active"`
	Variants          []VariantResponse `json:"variants"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceHistoryResponse is one immutable price change entry.
type PriceHistoryResponse struct {
	VariantID *string         `json:"variant_id,omitempty"`
	PriceType string          `json:"price_type"`
	OldValue  decimal.Decimal `json:"old_value"`
	NewValue  decimal.Decimal `json:"new_value"`
	ActorID   string          `json:"actor_id"`
	CreatedAt string          `json:"created_at"`
}

// PriceLookupResponse is the cached SKU price check payload.
type PriceLookupResponse struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Stock       int             `json:"stock"`
}
