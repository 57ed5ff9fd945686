package dto

import "github.com/shopspring/decimal"

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Type   string `form:"type"`   // sale | return | all
	Status string `form:"status"` // completed | partially_refunded | refunded
	Date   string `form:"date"`   // YYYY-MM-DD
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// SaleItemRequest is one cart line. Negative quantity marks a return line;
// OriginalSaleID links it to the sale being reversed.
type SaleItemRequest struct {
	ProductID      string  `json:"product_id" validate:"required,uuid"`
	VariantID      *string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity       int     `json:"quantity"   validate:"required"`
	OriginalSaleID *string `json:"original_sale_id" validate:"omitempty,uuid"`
}

type PaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash card transfer"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type ProcessSaleRequest struct {
	Items    []SaleItemRequest `json:"items"    validate:"required,min=1,dive"`
	Payments []PaymentRequest  `json:"payments" validate:"required,min=1,dive"`
}

type SaleItemResponse struct {
	ProductID        string          `json:"product_id"`
	VariantID        *string         `json:"variant_id,omitempty"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Quantity         int             `json:"quantity"`
	RetailPrice      decimal.Decimal `json:"retail_price"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	ReturnedQuantity int             `json:"returned_quantity"`
	OriginalSaleID   *string         `json:"original_sale_id,omitempty"`
}

type SaleResponse struct {
	ID        string             `json:"id"`
	Type      string             `json:"type"`
	Status    string             `json:"status"`
	Total     decimal.Decimal    `json:"total"`
	COGS      decimal.Decimal    `json:"cogs"`
	Items     []SaleItemResponse `json:"items"`
	Payments  []PaymentRequest   `json:"payments"`
	CreatedAt string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
