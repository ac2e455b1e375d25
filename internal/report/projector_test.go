package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizhub/backoffice/internal/models"
)

func sampleJob() models.Job {
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	return models.Job{
		ID:            7,
		CustomerName:  "Okafor Engineering",
		Status:        models.JobStatusCompleted,
		PaymentMethod: models.PaymentMethodCash,
		DateTime:      at,
		CreatorName:   "admin",
		Items: []models.JobItem{
			{ID: 1, JobID: 7, Description: "Generator servicing", Quantity: 1, Price: 120, Total: 120},
			{ID: 2, JobID: 7, Description: "Oil change", Quantity: 2, Price: 15, Total: 30},
			{ID: 3, JobID: 7, Description: "Spark plugs", Quantity: 4, Price: 5, Total: 20},
		},
	}
}

func TestProjectJobsOneRowPerItem(t *testing.T) {
	job := sampleJob()

	rows := ProjectJobs([]models.Job{job}, TargetExcel)

	require.Len(t, rows, 3, "a job with 3 items projects to exactly 3 rows")
	for _, row := range rows {
		assert.Equal(t, job.ID, row.JobID)
		assert.Equal(t, job.CustomerName, row.Customer)
		assert.Equal(t, job.Status, row.Status)
		assert.Equal(t, job.DateTime, row.Date)
		assert.Equal(t, "admin", row.CreatedBy)
	}
	assert.Equal(t, "Generator servicing", rows[0].Description)
	assert.Equal(t, 30.0, rows[1].Total)
}

func TestProjectJobsZeroItemsZeroRows(t *testing.T) {
	job := sampleJob()
	job.Items = nil

	rows := ProjectJobs([]models.Job{job}, TargetExcel)

	assert.Empty(t, rows)
}

func TestProjectJobsTruncationPerTarget(t *testing.T) {
	job := sampleJob()
	job.CustomerName = strings.Repeat("A", 30)
	job.Items = []models.JobItem{
		{Description: strings.Repeat("B", 40), Quantity: 1, Price: 10, Total: 10},
	}

	pdfRows := ProjectJobs([]models.Job{job}, TargetPDF)
	excelRows := ProjectJobs([]models.Job{job}, TargetExcel)

	require.Len(t, pdfRows, 1)
	require.Len(t, excelRows, 1)

	assert.Len(t, pdfRows[0].Customer, MaxCustomerLen)
	assert.Len(t, pdfRows[0].Description, MaxJobDescriptionLen)
	assert.Equal(t, strings.Repeat("A", 30), excelRows[0].Customer, "spreadsheet target keeps the full name")
	assert.Equal(t, strings.Repeat("B", 40), excelRows[0].Description)
}

func TestProjectJobsMissingCreator(t *testing.T) {
	job := sampleJob()
	job.CreatorName = ""

	rows := ProjectJobs([]models.Job{job}, TargetExcel)

	require.NotEmpty(t, rows)
	assert.Equal(t, "", rows[0].CreatedBy, "missing creator degrades to empty, not an error")
}

func TestProjectExpenditures(t *testing.T) {
	at := time.Date(2025, 3, 10, 16, 45, 0, 0, time.UTC)
	expenditures := []models.Expenditure{
		{ID: 3, Description: "Diesel", Quantity: 20, AmountUsed: 1.5, Total: 30, DateTime: at, CreatorName: "user"},
		{ID: 2, Description: strings.Repeat("x", 40), Quantity: 1, AmountUsed: 9, Total: 9, DateTime: at},
	}

	rows := ProjectExpenditures(expenditures, TargetPDF)

	require.Len(t, rows, 2)
	assert.Equal(t, "Diesel", rows[0].Description)
	assert.Equal(t, 30.0, rows[0].Total)
	assert.Len(t, rows[1].Description, MaxExpDescriptionLen)
}

func TestProjectionIsIdempotent(t *testing.T) {
	jobs := []models.Job{sampleJob()}

	first := ProjectJobs(jobs, TargetPDF)
	second := ProjectJobs(jobs, TargetPDF)

	assert.Equal(t, first, second, "projecting the same snapshot twice yields identical rows")
}

func TestFormatHelpers(t *testing.T) {
	at := time.Date(2025, 3, 12, 14, 5, 0, 0, time.UTC)

	assert.Equal(t, "₦1234.50", FormatMoney(1234.5))
	assert.Equal(t, "2025-03-12 02:05 PM", FormatExcelDate(at))
	assert.Equal(t, "03/12/2025", FormatPDFDate(at))
}
