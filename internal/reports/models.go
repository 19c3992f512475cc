package reports

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Report sections, in render order.
const (
	SectionMaterials        = "Materials"
	SectionTransport        = "Transport"
	SectionProductionEnergy = "Production energy"
)

// Row is one line of a product footprint report. EmissionKg is nil when the
// figure is unavailable; Display then carries the placeholder.
type Row struct {
	Section    string   `json:"section"`
	Name       string   `json:"name"`
	Detail     string   `json:"detail"`
	EmissionKg *float64 `json:"emission_kg,omitempty"`
	Display    string   `json:"display"`
}

// ProductReport is the assembled footprint report for one product.
type ProductReport struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CompanyName  string    `json:"company_name"`
	Unit         string    `json:"reference_impact_unit"`
	GeneratedAt  time.Time `json:"generated_at"`
	Rows         []Row     `json:"rows"`
	TotalKg      *float64  `json:"total_kg,omitempty"`
	TotalDisplay string    `json:"total_display"`
	TotalStale   bool      `json:"total_stale"`
}

// Schedule is a recurring export of one product's report.
type Schedule struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CompanyID uuid.UUID  `json:"company_id" db:"company_id"`
	ProductID uuid.UUID  `json:"product_id" db:"product_id"`
	Format    string     `json:"format" db:"format"`
	CronExpr  string     `json:"cron_expr" db:"cron_expr"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	LastRunAt *time.Time `json:"last_run_at,omitempty" db:"last_run_at"`
}

type CreateScheduleRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Format    string    `json:"format" binding:"required"`
	CronExpr  string    `json:"cron_expr" binding:"required"`
}

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

func IsValidFormat(format string) bool {
	switch format {
	case FormatJSON, FormatCSV, FormatXLSX, FormatPDF:
		return true
	}
	return false
}

// Exporter renders an assembled report into one output format. Implementations
// live under reports/export and are injected where reports are served.
type Exporter interface {
	Write(report *ProductReport, w io.Writer) error
}

// ScheduleRunner keeps live cron entries in step with stored schedules.
type ScheduleRunner interface {
	Add(schedule Schedule) error
	Remove(scheduleID uuid.UUID)
}

// ValidateCronExpression checks an expression against the standard 5-field
// cron format.
func ValidateCronExpression(expr string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(expr)
	return err
}
