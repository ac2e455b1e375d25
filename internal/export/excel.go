package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/report"
)

// ExcelContentType is the MIME type for generated spreadsheets
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelWriter renders projected export rows into xlsx workbooks. It adds
// no filtering or arithmetic of its own; rows arrive fully computed.
type ExcelWriter struct {
	logger *zap.Logger
}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter(logger *zap.Logger) *ExcelWriter {
	return &ExcelWriter{logger: logger}
}

var jobsHeader = []interface{}{
	"Job ID", "Customer", "Description", "Quantity", "Price", "Total", "Status", "Date", "Created By",
}

var expendituresHeader = []interface{}{
	"ID", "Description", "Quantity", "Amount Used", "Total", "Date", "Created By",
}

// WriteJobs renders job rows into a single-sheet workbook
func (w *ExcelWriter) WriteJobs(rows []report.JobRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Jobs"
	f.SetSheetName("Sheet1", sheet)

	if err := writeRow(f, sheet, 1, jobsHeader); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := []interface{}{
			row.JobID,
			row.Customer,
			row.Description,
			row.Quantity,
			row.Price,
			row.Total,
			row.Status,
			report.FormatExcelDate(row.Date),
			row.CreatedBy,
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		w.logger.Error("Failed to write jobs workbook", zap.Error(err))
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	w.logger.Info("Jobs workbook generated", zap.Int("rows", len(rows)))
	return buf.Bytes(), nil
}

// WriteExpenditures renders expenditure rows into a single-sheet workbook
func (w *ExcelWriter) WriteExpenditures(rows []report.ExpenditureRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Expenditures"
	f.SetSheetName("Sheet1", sheet)

	if err := writeRow(f, sheet, 1, expendituresHeader); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := []interface{}{
			row.ID,
			row.Description,
			row.Quantity,
			row.AmountUsed,
			row.Total,
			report.FormatExcelDate(row.Date),
			row.CreatedBy,
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		w.logger.Error("Failed to write expenditures workbook", zap.Error(err))
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	w.logger.Info("Expenditures workbook generated", zap.Int("rows", len(rows)))
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to build cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to set sheet row: %w", err)
	}
	return nil
}
