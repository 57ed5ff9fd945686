package dto

import "github.com/shopspring/decimal"

// PurchaseOrderFilter is bound from the query string of GET /v1/purchase-orders.
type PurchaseOrderFilter struct {
	Status     string `form:"status"` // pending | partial | received | all
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type POItemRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid"`
	VariantID       *string         `json:"variant_id" validate:"omitempty,uuid"`
	QuantityOrdered int             `json:"quantity_ordered" validate:"required,gt=0"`
	CostPrice       decimal.Decimal `json:"cost_price"  validate:"required"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID   string          `json:"supplier_id" validate:"required,uuid"`
	DateExpected *string         `json:"date_expected"` // YYYY-MM-DD
	Notes        *string         `json:"notes"`
	Items        []POItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReceiveEntry is one received delivery line. Callers must have validated
// that quantity does not exceed the line's remaining amount; the lifecycle
// does not clamp.
type ReceiveEntry struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int     `json:"quantity"   validate:"required,gt=0"`
}

type ReceivePOItemsRequest struct {
	Items []ReceiveEntry `json:"items" validate:"required,min=1,dive"`
}

type POItemResponse struct {
	ProductID        string          `json:"product_id"`
	VariantID        *string         `json:"variant_id,omitempty"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	CostPrice        decimal.Decimal `json:"cost_price"`
}

type PurchaseOrderResponse struct {
	ID           string           `json:"id"`
	SupplierID   string           `json:"supplier_id"`
	SupplierName string           `json:"supplier_name,omitempty"`
	Status       string           `json:"status"`
	TotalCost    decimal.Decimal  `json:"total_cost"`
	Notes        *string          `json:"notes,omitempty"`
	DateExpected *string          `json:"date_expected,omitempty"`
	Items        []POItemResponse `json:"items"`
	CreatedAt    string           `json:"created_at"`
}

type PurchaseOrderListResponse struct {
	Data  []PurchaseOrderResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
