package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SaleResponse serializes a sale snapshot with display names joined from the
// users and products tables. Product may be empty if the product was deleted
// after the sale.
type SaleResponse struct {
	ID          string          `json:"id"`
	User        string          `json:"user"`
	Product     string          `json:"product"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SaleDate    string          `json:"sale_date"`
}

// PurchaseResult mirrors the API purchase contract: business-rule failures
// (unknown product, insufficient stock) are reported as success=false with a
// message, not as transport errors.
type PurchaseResult struct {
	Success bool          `json:"success"`
	Sale    *SaleResponse `json:"sale,omitempty"`
	Message string        `json:"message"`
}

// SalesReport aggregates revenue over a trailing day window.
type SalesReport struct {
	PeriodDays        int             `json:"period_days"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTransactions int             `json:"total_transactions"`
	Sales             []SaleResponse  `json:"sales"`
}
