package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/reports"
)

// PDFGenerator renders a product report as a PDF document.
type PDFGenerator struct {
	options PDFOptions
}

// PDFOptions configures PDF generation.
type PDFOptions struct {
	PageSize       string   `json:"page_size"`
	Orientation    string   `json:"orientation"`
	FontFamily     string   `json:"font_family"`
	FontSize       float64  `json:"font_size"`
	TitleFontSize  float64  `json:"title_font_size"`
	HeaderColor    PDFColor `json:"header_color"`
	AlternateRows  bool     `json:"alternate_rows"`
	AlternateColor PDFColor `json:"alternate_color"`
}

// PDFColor is an RGB color.
type PDFColor struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageSize:       "A4",
		Orientation:    "portrait",
		FontFamily:     "Arial",
		FontSize:       10,
		TitleFontSize:  16,
		HeaderColor:    PDFColor{R: 68, G: 114, B: 196},
		AlternateRows:  true,
		AlternateColor: PDFColor{R: 242, G: 242, B: 242},
	}
}

func NewPDFGenerator(options PDFOptions) *PDFGenerator {
	return &PDFGenerator{options: options}
}

var pdfColumns = []struct {
	label string
	width float64
}{
	{"Section", 40},
	{"Name", 60},
	{"Detail", 45},
	{"Emission (kg CO2e)", 35},
}

func (g *PDFGenerator) Write(report *reports.ProductReport, w io.Writer) error {
	orientation := "P"
	if g.options.Orientation == "landscape" {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "mm", g.options.PageSize, "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(g.options.FontFamily, "B", g.options.TitleFontSize)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s — product carbon footprint", report.ProductName), "", 1, "C", false, 0, "")

	pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	pdf.CellFormat(0, 6, report.CompanyName, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+report.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	if report.TotalStale {
		pdf.SetTextColor(200, 80, 0)
		pdf.CellFormat(0, 6, "Total is being recalculated; figures may lag recent edits", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(6)

	// Table header
	pdf.SetFont(g.options.FontFamily, "B", g.options.FontSize)
	pdf.SetFillColor(g.options.HeaderColor.R, g.options.HeaderColor.G, g.options.HeaderColor.B)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, col.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range report.Rows {
		fill := g.options.AlternateRows && i%2 == 1
		if fill {
			pdf.SetFillColor(g.options.AlternateColor.R, g.options.AlternateColor.G, g.options.AlternateColor.B)
		}
		cells := []string{row.Section, row.Name, row.Detail, formatEmission(row.EmissionKg, row.Display)}
		for j, value := range cells {
			pdf.CellFormat(pdfColumns[j].width, 7, value, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont(g.options.FontFamily, "B", g.options.FontSize)
	totals := []string{"Total", report.ProductName, "per " + report.Unit, formatEmission(report.TotalKg, report.TotalDisplay)}
	for j, value := range totals {
		pdf.CellFormat(pdfColumns[j].width, 8, value, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	return pdf.Output(w)
}
