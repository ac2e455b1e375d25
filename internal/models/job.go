package models

import "time"

// Job statuses
const (
	JobStatusCompleted  = "Completed"
	JobStatusIncomplete = "Incomplete"
)

// Payment methods
const (
	PaymentMethodCash     = "Cash"
	PaymentMethodTransfer = "Transfer"
)

// Job represents a service job for a customer
type Job struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name"`
	Status        string    `json:"status"`         // Completed or Incomplete
	PaymentMethod string    `json:"payment_method"` // Cash or Transfer
	DateTime      time.Time `json:"date_time"`
	CreatedBy     int64     `json:"created_by"`
	CreatorName   string    `json:"creator_name,omitempty"` // resolved from users, empty when the creator is gone
	Items         []JobItem `json:"items"`
}

// TotalAmount returns the live sum of the job's item totals.
// It is derived on every call and never stored on the job row.
func (j *Job) TotalAmount() float64 {
	var total float64
	for _, item := range j.Items {
		total += item.Total
	}
	return total
}

// JobItem represents a single line item belonging to a job
type JobItem struct {
	ID          int64   `json:"id"`
	JobID       int64   `json:"job_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"` // may be fractional
	Price       float64 `json:"price"`    // unit price
	Total       float64 `json:"total"`    // quantity * price, computed at write time
}

// NewJobItem builds a line item with its total computed from quantity and
// price. Client-supplied totals are never trusted.
func NewJobItem(jobID int64, description string, quantity, price float64) JobItem {
	return JobItem{
		JobID:       jobID,
		Description: description,
		Quantity:    quantity,
		Price:       price,
		Total:       quantity * price,
	}
}
