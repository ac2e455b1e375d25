package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidatePaymentMethod checks a job payment method
func ValidatePaymentMethod(method string) error {
	if method != "Cash" && method != "Transfer" {
		return fmt.Errorf("invalid payment method: %s", method)
	}
	return nil
}

// ValidateJobStatus checks a job status value
func ValidateJobStatus(status string) error {
	if status != "Completed" && status != "Incomplete" {
		return fmt.Errorf("invalid job status: %s", status)
	}
	return nil
}

// ValidateRole checks a user role
func ValidateRole(role string) error {
	if role != "admin" && role != "normal" {
		return fmt.Errorf("invalid role: %s", role)
	}
	return nil
}

// ValidateQuantity checks a line item or expenditure quantity
func ValidateQuantity(quantity float64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %g", quantity)
	}
	return nil
}

// ValidateAmount checks a unit price or amount-used value
func ValidateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative: %.2f", amount)
	}
	return nil
}

// ValidateDescription checks a free-text description field
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description must not be empty")
	}
	if len(description) > 200 {
		return fmt.Errorf("description too long: %d characters (max 200)", len(description))
	}
	return nil
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	return nil
}

// SanitizeString removes control characters from user input
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
