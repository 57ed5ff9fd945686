package infra

// Closing report generation using go-pdf/fpdf. Renders a thermal
// receipt-style Z report for a closed shift: float, cash totals, expected vs
// counted and the signed difference.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"stockpos/internal/model"
)

// ShiftReporter writes closing report PDFs under storagePath.
type ShiftReporter struct {
	storagePath string
}

func NewShiftReporter(storagePath string) *ShiftReporter {
	return &ShiftReporter{storagePath: storagePath}
}

// WriteShiftReport renders the Z report for a closed shift and returns the
// absolute path to the generated file.
func (r *ShiftReporter) WriteShiftReport(shift *model.Shift) (string, error) {
	if err := os.MkdirAll(r.storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("shift_%s.pdf", shift.ID)
	filePath := filepath.Join(r.storagePath, fileName)

	// 74mm x 105mm, close to thermal receipt paper.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Shift Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Shift %s", shift.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, "Opened "+shift.StartTime.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	if shift.EndTime != nil {
		pdf.CellFormat(contentW, 4, "Closed "+shift.EndTime.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	row := func(label string, value decimal.Decimal) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW*0.6, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 5, value.StringFixed(2), "", 1, "R", false, 0, "")
	}

	row("Starting float", shift.StartFloat)
	row("Cash sales", shift.CashSales)
	row("Cash refunds", shift.CashRefunds)

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 10)
	if shift.ExpectedCash != nil {
		pdf.CellFormat(contentW*0.6, 6, "Expected", "T", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, shift.ExpectedCash.StringFixed(2), "T", 1, "R", false, 0, "")
	}
	if shift.ActualCash != nil {
		pdf.CellFormat(contentW*0.6, 6, "Counted", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, shift.ActualCash.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if shift.Difference != nil {
		pdf.CellFormat(contentW*0.6, 6, "Difference", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, shift.Difference.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if shift.Notes != nil && *shift.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, *shift.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
