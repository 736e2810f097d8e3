package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=1,max=100"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Quantity    int             `json:"quantity"    validate:"min=0"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"    validate:"omitempty,max=50"`
}

// UpdateProductRequest is an explicit patch: every field is optional and nil
// means "unchanged". Unknown attributes cannot be set — the accepted set is
// exactly what is enumerated here.
type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,min=0"`
	Quantity    *int             `json:"quantity"    validate:"omitempty,min=0"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"    validate:"omitempty,max=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}
