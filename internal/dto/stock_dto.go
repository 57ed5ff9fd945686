package dto

// AdjustStockRequest sets the absolute stock level of a product or one of its
// variants. The service derives the signed ledger delta from the current level.
type AdjustStockRequest struct {
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
	NewLevel  int     `json:"new_level"  validate:"min=0"`
	Reason    string  `json:"reason"     validate:"required,min=3"`
}

// ReceiveStockRequest adds incoming units on top of the current level.
type ReceiveStockRequest struct {
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int     `json:"quantity"   validate:"required,gt=0"`
}

type StockAdjustmentResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	VariantID   *string `json:"variant_id,omitempty"`
	Delta       int     `json:"delta"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason"`
	SourceType  string  `json:"source_type"`
	SourceID    *string `json:"source_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type StockAdjustmentListResponse struct {
	Data  []StockAdjustmentResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
