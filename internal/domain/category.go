package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a pricing tier shared by one or more zones. Rates are per
// hour; RateSpecial applies during rush-hour windows and vacations.
type Category struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	RateNormal  decimal.Decimal `json:"rateNormal"`
	RateSpecial decimal.Decimal `json:"rateSpecial"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UpdateCategoryDTO carries the admin rate/name update. Pointer fields
// distinguish "not sent" from zero values.
type UpdateCategoryDTO struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	RateNormal  *decimal.Decimal `json:"rateNormal,omitempty"`
	RateSpecial *decimal.Decimal `json:"rateSpecial,omitempty"`
}
