package infra

// pdf.go — sales report export using go-pdf/fpdf.
// Renders an A4 report with the revenue summary and one row per sale.

import (
	"fmt"
	"io"
	"time"

	"stockpilot/internal/dto"

	"github.com/go-pdf/fpdf"
)

// RenderReportPDF writes a PDF rendering of the sales report to w.
func RenderReportPDF(report *dto.SalesReport, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Sales Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5,
		fmt.Sprintf("Last %d days — generated %s", report.PeriodDays, time.Now().UTC().Format("2006-01-02 15:04 UTC")),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Summary ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW/2, 7, fmt.Sprintf("Total Revenue: $%s", report.TotalRevenue.StringFixed(2)), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 7, fmt.Sprintf("Transactions: %d", report.TotalTransactions), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	// ── Sale rows ────────────────────────────────────────────────────────────
	colW := []float64{35, 35, 45, 15, 25, 25}
	headers := []string{"Date", "User", "Product", "Qty", "Unit Price", "Total"}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colW[i], 6, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, sale := range report.Sales {
		date := sale.SaleDate
		if t, err := time.Parse(time.RFC3339, sale.SaleDate); err == nil {
			date = t.Format("2006-01-02 15:04")
		}
		cells := []string{
			date,
			sale.User,
			sale.Product,
			fmt.Sprintf("%d", sale.Quantity),
			"$" + sale.UnitPrice.StringFixed(2),
			"$" + sale.TotalAmount.StringFixed(2),
		}
		for i, c := range cells {
			pdf.CellFormat(colW[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(report.Sales) == 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 6, "No sales in this period.", "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
