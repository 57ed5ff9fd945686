package dto

import "github.com/shopspring/decimal"

type OpenShiftRequest struct {
	StartFloat decimal.Decimal `json:"start_float" validate:"min=0"`
}

type CloseShiftRequest struct {
	ActualCash decimal.Decimal `json:"actual_cash" validate:"min=0"`
	Notes      *string         `json:"notes"`
}

type ShiftResponse struct {
	ID           string           `json:"id"`
	OpenedBy     string           `json:"opened_by"`
	ClosedBy     *string          `json:"closed_by,omitempty"`
	Status       string           `json:"status"`
	StartFloat   decimal.Decimal  `json:"start_float"`
	CashSales    decimal.Decimal  `json:"cash_sales"`
	CashRefunds  decimal.Decimal  `json:"cash_refunds"`
	ExpectedCash *decimal.Decimal `json:"expected_cash,omitempty"`
	ActualCash   *decimal.Decimal `json:"actual_cash,omitempty"`
	Difference   *decimal.Decimal `json:"difference,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	StartTime    string           `json:"start_time"`
	EndTime      *string          `json:"end_time,omitempty"`
}

type ShiftListResponse struct {
	Data  []ShiftResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
