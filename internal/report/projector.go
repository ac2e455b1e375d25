package report

import (
	"fmt"
	"time"

	"github.com/bizhub/backoffice/internal/models"
)

// Target formats for export projections
const (
	TargetExcel = "excel"
	TargetPDF   = "pdf"
)

// Column width limits for fixed-width (PDF) targets, in characters
const (
	MaxCustomerLen       = 15
	MaxJobDescriptionLen = 20
	MaxExpDescriptionLen = 25
)

// CurrencySymbol prefixes money fields on fixed-width targets
const CurrencySymbol = "₦"

// JobRow is one flat export row for a (job, item) pair. A job with N
// items projects to N rows; a job with no items projects to none.
type JobRow struct {
	JobID       int64
	Customer    string
	Description string
	Quantity    float64
	Price       float64
	Total       float64
	Status      string
	Date        time.Time
	CreatedBy   string
}

// ExpenditureRow is one flat export row for an expenditure record
type ExpenditureRow struct {
	ID          int64
	Description string
	Quantity    float64
	AmountUsed  float64
	Total       float64
	Date        time.Time
	CreatedBy   string
}

// ProjectJobs flattens jobs into export rows, one per line item, repeating
// the job's customer, status, date and creator on every row. Input must
// already be filtered and sorted date-descending. For the PDF target,
// string fields are truncated to their fixed column widths; the Excel
// target passes them through untouched. A missing creator projects as an
// empty name rather than failing the export.
func ProjectJobs(jobs []models.Job, target string) []JobRow {
	var rows []JobRow
	for _, job := range jobs {
		customer := job.CustomerName
		if target == TargetPDF {
			customer = truncate(customer, MaxCustomerLen)
		}
		for _, item := range job.Items {
			desc := item.Description
			if target == TargetPDF {
				desc = truncate(desc, MaxJobDescriptionLen)
			}
			rows = append(rows, JobRow{
				JobID:       job.ID,
				Customer:    customer,
				Description: desc,
				Quantity:    item.Quantity,
				Price:       item.Price,
				Total:       item.Total,
				Status:      job.Status,
				Date:        job.DateTime,
				CreatedBy:   job.CreatorName,
			})
		}
	}
	return rows
}

// ProjectExpenditures flattens expenditures into export rows, one per
// record. Truncation rules follow ProjectJobs.
func ProjectExpenditures(expenditures []models.Expenditure, target string) []ExpenditureRow {
	var rows []ExpenditureRow
	for _, exp := range expenditures {
		desc := exp.Description
		if target == TargetPDF {
			desc = truncate(desc, MaxExpDescriptionLen)
		}
		rows = append(rows, ExpenditureRow{
			ID:          exp.ID,
			Description: desc,
			Quantity:    exp.Quantity,
			AmountUsed:  exp.AmountUsed,
			Total:       exp.Total,
			Date:        exp.DateTime,
			CreatedBy:   exp.CreatorName,
		})
	}
	return rows
}

// FormatMoney renders a monetary value for fixed-width targets
func FormatMoney(v float64) string {
	return fmt.Sprintf("%s%.2f", CurrencySymbol, v)
}

// FormatExcelDate renders a timestamp for spreadsheet targets
func FormatExcelDate(t time.Time) string {
	return t.Format("2006-01-02 03:04 PM")
}

// FormatPDFDate renders a timestamp for fixed-width targets
func FormatPDFDate(t time.Time) string {
	return t.Format("01/02/2006")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
