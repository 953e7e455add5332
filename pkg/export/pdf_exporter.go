package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// TimetableGrid is one weekly grid (a single class and shift) for PDF rendering.
type TimetableGrid struct {
	Title   string
	Days    []string
	Periods []string
	// Cells[periodIdx][dayIdx] holds "SUBJECT / teacher" or "".
	Cells [][]string
}

// PDFExporter renders weekly timetable grids into a PDF document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with one grid per page section.
func (e *PDFExporter) Render(title string, grids []TimetableGrid) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("pdf requires at least one grid")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	for _, grid := range grids {
		pdf.AddPage()

		if title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, grid.Title, "", 1, "C", false, 0, "")
		pdf.Ln(3)

		cols := len(grid.Days) + 1
		colWidth := 277.0 / float64(cols)

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(colWidth, 8, "", "1", 0, "C", false, 0, "")
		for _, day := range grid.Days {
			pdf.CellFormat(colWidth, 8, day, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		for i, period := range grid.Periods {
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(colWidth, 10, period, "1", 0, "C", false, 0, "")
			pdf.SetFont("Arial", "", 8)
			for d := range grid.Days {
				value := ""
				if i < len(grid.Cells) && d < len(grid.Cells[i]) {
					value = grid.Cells[i][d]
				}
				pdf.CellFormat(colWidth, 10, value, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
