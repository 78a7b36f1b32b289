package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	landscapeWidth = 277.0
	portraitWidth  = 190.0
)

// PDFExporter renders datasets into a tabular PDF.
type PDFExporter struct {
	orientation string
}

// NewPDFExporter constructs a landscape PDF exporter; timetables are wide.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{orientation: "L"}
}

// NewPortraitPDFExporter constructs a portrait PDF exporter.
func NewPortraitPDFExporter() *PDFExporter {
	return &PDFExporter{orientation: "P"}
}

// Render creates a PDF document with an optional title, note lines and the table body.
// Column widths follow the longest value of each column.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New(e.orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	if len(data.Notes) > 0 {
		pdf.SetFont("Arial", "", 9)
		for _, note := range data.Notes {
			pdf.MultiCell(0, 5, note, "", "L", false)
		}
		pdf.Ln(3)
	}

	widths := columnWidths(pdf, data, e.pageWidth())

	pdf.SetFont("Arial", "B", 10)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) pageWidth() float64 {
	if e.orientation == "P" {
		return portraitWidth
	}
	return landscapeWidth
}

func columnWidths(pdf *gofpdf.Fpdf, data Dataset, total float64) []float64 {
	pdf.SetFont("Arial", "B", 10)
	natural := make([]float64, len(data.Headers))
	sum := 0.0
	for i, header := range data.Headers {
		width := pdf.GetStringWidth(header)
		for _, row := range data.Rows {
			if w := pdf.GetStringWidth(row[header]); w > width {
				width = w
			}
		}
		natural[i] = width + 4
		sum += natural[i]
	}
	widths := make([]float64, len(natural))
	for i, width := range natural {
		widths[i] = width / sum * total
	}
	return widths
}
