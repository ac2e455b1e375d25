package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/bizhub/backoffice/internal/report"
)

// PDFContentType is the MIME type for generated PDF reports
const PDFContentType = "application/pdf"

// Fixed layout for Letter pages, in points, measured from the top-left.
// A row that would land past the bottom margin starts a new page with
// the cursor back at the top margin.
const (
	pdfTopMargin    = 50.0
	pdfBottomMargin = 50.0
	pdfHeaderY      = 100.0
	pdfRowStep      = 15.0
	pdfPageHeight   = 792.0 // Letter
)

// PDFWriter renders projected export rows into fixed-width PDF reports.
// Rows arrive already truncated to their column widths by the projector.
type PDFWriter struct {
	logger *zap.Logger
}

// NewPDFWriter creates a new PDF writer
func NewPDFWriter(logger *zap.Logger) *PDFWriter {
	return &PDFWriter{logger: logger}
}

// WriteJobs renders job rows under a titled, column-headed layout
func (w *PDFWriter) WriteJobs(rows []report.JobRow, filter string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(50, pdfTopMargin, tr(fmt.Sprintf("Jobs Report - %s", titleCase(filter))))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(50, pdfHeaderY, "Customer")
	pdf.Text(150, pdfHeaderY, "Description")
	pdf.Text(300, pdfHeaderY, "Qty")
	pdf.Text(350, pdfHeaderY, "Price")
	pdf.Text(400, pdfHeaderY, "Total")
	pdf.Text(450, pdfHeaderY, "Status")
	pdf.Text(500, pdfHeaderY, "Date")

	pdf.SetFont("Helvetica", "", 8)
	y := pdfHeaderY + 20

	for _, row := range rows {
		if y > pdfPageHeight-pdfBottomMargin {
			pdf.AddPage()
			y = pdfTopMargin
		}

		pdf.Text(50, y, tr(row.Customer))
		pdf.Text(150, y, tr(row.Description))
		pdf.Text(300, y, tr(formatQuantity(row.Quantity)))
		pdf.Text(350, y, tr(pdfMoney(row.Price)))
		pdf.Text(400, y, tr(pdfMoney(row.Total)))
		pdf.Text(450, y, tr(row.Status))
		pdf.Text(500, y, tr(report.FormatPDFDate(row.Date)))
		y += pdfRowStep
	}

	return w.output(pdf, "jobs", len(rows))
}

// WriteExpenditures renders expenditure rows under a titled layout
func (w *PDFWriter) WriteExpenditures(rows []report.ExpenditureRow, filter string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(50, pdfTopMargin, tr(fmt.Sprintf("Expenditures Report - %s", titleCase(filter))))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(50, pdfHeaderY, "Description")
	pdf.Text(200, pdfHeaderY, "Quantity")
	pdf.Text(300, pdfHeaderY, "Amount Used")
	pdf.Text(400, pdfHeaderY, "Total")
	pdf.Text(500, pdfHeaderY, "Date")

	pdf.SetFont("Helvetica", "", 8)
	y := pdfHeaderY + 20

	for _, row := range rows {
		if y > pdfPageHeight-pdfBottomMargin {
			pdf.AddPage()
			y = pdfTopMargin
		}

		pdf.Text(50, y, tr(row.Description))
		pdf.Text(200, y, tr(formatQuantity(row.Quantity)))
		pdf.Text(300, y, tr(pdfMoney(row.AmountUsed)))
		pdf.Text(400, y, tr(pdfMoney(row.Total)))
		pdf.Text(500, y, tr(report.FormatPDFDate(row.Date)))
		y += pdfRowStep
	}

	return w.output(pdf, "expenditures", len(rows))
}

func (w *PDFWriter) output(pdf *gofpdf.Fpdf, entity string, rows int) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		w.logger.Error("Failed to write PDF", zap.String("entity", entity), zap.Error(err))
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	w.logger.Info("PDF report generated", zap.String("entity", entity), zap.Int("rows", rows))
	return buf.Bytes(), nil
}

// formatQuantity keeps whole quantities short while preserving fractional ones
func formatQuantity(q float64) string {
	return fmt.Sprintf("%g", q)
}

// pdfMoney renders money for the core Helvetica font, which carries no
// naira glyph. The symbol falls back to a plain N.
func pdfMoney(v float64) string {
	return strings.ReplaceAll(report.FormatMoney(v), report.CurrencySymbol, "N")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
