package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/reports"
)

// ExcelExporter renders a product report as an xlsx workbook.
type ExcelExporter struct {
	options ExcelOptions
}

// ExcelOptions configures Excel export behavior.
type ExcelOptions struct {
	SheetName    string `json:"sheet_name"`
	FreezeHeader bool   `json:"freeze_header"`
	AutoFilter   bool   `json:"auto_filter"`
}

func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:    "Footprint",
		FreezeHeader: true,
		AutoFilter:   true,
	}
}

func NewExcelExporter(options ExcelOptions) *ExcelExporter {
	return &ExcelExporter{options: options}
}

func (e *ExcelExporter) Write(report *reports.ProductReport, w io.Writer) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := e.options.SheetName
	file.SetSheetName("Sheet1", sheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	file.SetCellValue(sheet, "A1", fmt.Sprintf("%s — product carbon footprint", report.ProductName))
	file.SetCellValue(sheet, "A2", report.CompanyName)
	file.SetCellValue(sheet, "A3", "Generated "+report.GeneratedAt.Format("2006-01-02 15:04"))

	const headerRow = 5
	for i, col := range []string{"Section", "Name", "Detail", "Emission (kg CO2e)"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		file.SetCellValue(sheet, cell, col)
		file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	row := headerRow + 1
	for _, r := range report.Rows {
		file.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Section)
		file.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Name)
		file.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Detail)
		if r.EmissionKg != nil {
			file.SetCellValue(sheet, fmt.Sprintf("D%d", row), *r.EmissionKg)
		} else {
			file.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Display)
		}
		row++
	}

	file.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	file.SetCellValue(sheet, fmt.Sprintf("C%d", row), "per "+report.Unit)
	if report.TotalKg != nil {
		file.SetCellValue(sheet, fmt.Sprintf("D%d", row), *report.TotalKg)
	} else {
		file.SetCellValue(sheet, fmt.Sprintf("D%d", row), report.TotalDisplay)
	}
	file.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), headerStyle)

	if e.options.FreezeHeader {
		file.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
			ActivePane:  "bottomLeft",
		})
	}
	if e.options.AutoFilter {
		file.AutoFilter(sheet, fmt.Sprintf("A%d:D%d", headerRow, row-1), nil)
	}

	for col, width := range map[string]float64{"A": 20, "B": 32, "C": 24, "D": 20} {
		file.SetColWidth(sheet, col, col, width)
	}

	return file.Write(w)
}
