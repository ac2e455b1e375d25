package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/report"
)

func testJobRows() []report.JobRow {
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	return []report.JobRow{
		{JobID: 1, Customer: "Acme", Description: "Servicing", Quantity: 2, Price: 50, Total: 100,
			Status: "Completed", Date: at, CreatedBy: "admin"},
		{JobID: 1, Customer: "Acme", Description: "Parts", Quantity: 1, Price: 25, Total: 25,
			Status: "Completed", Date: at, CreatedBy: "admin"},
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "jobs_week_20250312.xlsx", Filename("jobs", "week", now, "xlsx"))
	assert.Equal(t, "expenditures_all_20250312.pdf", Filename("expenditures", "all", now, "pdf"))
}

func TestExcelWriterJobs(t *testing.T) {
	w := NewExcelWriter(zap.NewNop())

	data, err := w.WriteJobs(testJobRows())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Jobs")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two data rows")

	assert.Equal(t, "Customer", rows[0][1])
	assert.Equal(t, "Acme", rows[1][1])
	assert.Equal(t, "2025-03-12 09:30 AM", rows[1][7])
}

func TestExcelWriterExpenditures(t *testing.T) {
	w := NewExcelWriter(zap.NewNop())
	at := time.Date(2025, 3, 10, 16, 45, 0, 0, time.UTC)

	data, err := w.WriteExpenditures([]report.ExpenditureRow{
		{ID: 3, Description: "Diesel", Quantity: 20, AmountUsed: 1.5, Total: 30, Date: at},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expenditures")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Diesel", rows[1][1])
}

func TestExcelWriterEmptyRows(t *testing.T) {
	w := NewExcelWriter(zap.NewNop())

	data, err := w.WriteJobs(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Jobs")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "only the header row")
}

func TestPDFMoneyStaysInCoreFontRange(t *testing.T) {
	got := pdfMoney(1234.5)
	assert.Equal(t, "N1234.50", got)

	for _, r := range got {
		assert.Less(t, r, rune(128), "money cells must render with the core Helvetica glyphs")
	}
}

func TestPDFWriterJobs(t *testing.T) {
	w := NewPDFWriter(zap.NewNop())

	data, err := w.WriteJobs(testJobRows(), "today")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output must be a PDF document")
}

func TestPDFWriterPaginates(t *testing.T) {
	w := NewPDFWriter(zap.NewNop())

	// Enough rows to overflow one Letter page at 15pt per row.
	rows := make([]report.ExpenditureRow, 100)
	at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	for i := range rows {
		rows[i] = report.ExpenditureRow{ID: int64(i), Description: "Fuel", Quantity: 1, AmountUsed: 2, Total: 2, Date: at}
	}

	single, err := w.WriteExpenditures(rows[:1], "all")
	require.NoError(t, err)
	full, err := w.WriteExpenditures(rows, "all")
	require.NoError(t, err)

	assert.Greater(t, bytes.Count(full, []byte("/Page")), bytes.Count(single, []byte("/Page")),
		"overflowing rows must spill onto additional pages")
}
