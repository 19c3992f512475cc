package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/reports"
)

// CSVExporter renders a product report as CSV.
type CSVExporter struct {
	options CSVOptions
}

// CSVOptions configures CSV export behavior.
type CSVOptions struct {
	Delimiter     rune `json:"delimiter"`
	UseCRLF       bool `json:"use_crlf"`
	IncludeHeader bool `json:"include_header"`
}

func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:     ',',
		UseCRLF:       false,
		IncludeHeader: true,
	}
}

func NewCSVExporter(options CSVOptions) *CSVExporter {
	return &CSVExporter{options: options}
}

var reportColumns = []string{"section", "name", "detail", "emission_kg_co2e"}

func (e *CSVExporter) Write(report *reports.ProductReport, w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = e.options.Delimiter
	writer.UseCRLF = e.options.UseCRLF

	if e.options.IncludeHeader {
		if err := writer.Write(reportColumns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for _, row := range report.Rows {
		record := []string{row.Section, row.Name, row.Detail, formatEmission(row.EmissionKg, row.Display)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	total := []string{"Total", report.ProductName, "per " + report.Unit, formatEmission(report.TotalKg, report.TotalDisplay)}
	if err := writer.Write(total); err != nil {
		return fmt.Errorf("failed to write total row: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

// formatEmission prefers the numeric figure; unavailable figures keep their
// placeholder display.
func formatEmission(kg *float64, display string) string {
	if kg == nil {
		return display
	}
	return strconv.FormatFloat(*kg, 'f', -1, 64)
}
