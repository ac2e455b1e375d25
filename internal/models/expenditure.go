package models

import "time"

// Expenditure represents money spent on supplies or services
type Expenditure struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	AmountUsed  float64   `json:"amount_used"` // amount used per unit
	Total       float64   `json:"total"`       // quantity * amount_used, computed at write time
	DateTime    time.Time `json:"date_time"`
	CreatedBy   int64     `json:"created_by"`
	CreatorName string    `json:"creator_name,omitempty"`
}

// NewExpenditure builds an expenditure with its total computed from
// quantity and amount used. Client-supplied totals are never trusted.
func NewExpenditure(description string, quantity, amountUsed float64, createdBy int64) Expenditure {
	return Expenditure{
		Description: description,
		Quantity:    quantity,
		AmountUsed:  amountUsed,
		Total:       quantity * amountUsed,
		CreatedBy:   createdBy,
	}
}
