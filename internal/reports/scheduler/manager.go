package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/reports"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/reports/export"
)

// ReportBuilder assembles a product's footprint report.
type ReportBuilder interface {
	Build(ctx context.Context, callerCompanyID, productID uuid.UUID) (*reports.ProductReport, error)
}

// RunRecorder marks a schedule's last execution.
type RunRecorder interface {
	UpdateLastRun(ctx context.Context, id uuid.UUID, ranAt time.Time) error
}

// Manager runs recurring report exports. Each schedule maps to one cron entry
// writing the rendered report into the configured output directory.
type Manager struct {
	cron      *cron.Cron
	jobs      map[uuid.UUID]cron.EntryID
	builder   ReportBuilder
	recorder  RunRecorder
	outputDir string
	logger    *zap.Logger
	mu        sync.Mutex
	running   bool
}

func NewManager(builder ReportBuilder, recorder RunRecorder, outputDir string, logger *zap.Logger) *Manager {
	return &Manager{
		cron:      cron.New(),
		jobs:      make(map[uuid.UUID]cron.EntryID),
		builder:   builder,
		recorder:  recorder,
		outputDir: outputDir,
		logger:    logger,
	}
}

// Start registers the given schedules and starts the cron loop.
func (m *Manager) Start(schedules []reports.Schedule) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("report scheduler already running")
	}
	m.running = true
	m.mu.Unlock()

	if err := os.MkdirAll(m.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create report output dir: %w", err)
	}

	for i := range schedules {
		if err := m.Add(schedules[i]); err != nil {
			m.logger.Warn("skipping report schedule",
				zap.String("schedule_id", schedules[i].ID.String()),
				zap.Error(err))
		}
	}

	m.cron.Start()
	m.logger.Info("report scheduler started", zap.Int("schedules", len(schedules)))
	return nil
}

func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.running = false
	m.logger.Info("report scheduler stopped")
}

// Add registers one schedule, replacing any existing entry for the same id.
func (m *Manager) Add(schedule reports.Schedule) error {
	if !reports.IsValidFormat(schedule.Format) {
		return fmt.Errorf("unsupported format %q", schedule.Format)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entryID, ok := m.jobs[schedule.ID]; ok {
		m.cron.Remove(entryID)
	}

	entryID, err := m.cron.AddFunc(schedule.CronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		m.execute(ctx, schedule)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	m.jobs[schedule.ID] = entryID
	return nil
}

func (m *Manager) Remove(scheduleID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entryID, ok := m.jobs[scheduleID]; ok {
		m.cron.Remove(entryID)
		delete(m.jobs, scheduleID)
	}
}

// ActiveJobs reports registered cron entries, exposed on the health endpoint.
func (m *Manager) ActiveJobs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func (m *Manager) execute(ctx context.Context, schedule reports.Schedule) {
	report, err := m.builder.Build(ctx, schedule.CompanyID, schedule.ProductID)
	if err != nil {
		m.logger.Error("scheduled report build failed",
			zap.String("schedule_id", schedule.ID.String()),
			zap.Error(err))
		return
	}

	name := fmt.Sprintf("%s-%s.%s", schedule.ProductID, time.Now().Format("20060102-150405"), schedule.Format)
	path := filepath.Join(m.outputDir, name)

	file, err := os.Create(path)
	if err != nil {
		m.logger.Error("failed to create report file", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	switch schedule.Format {
	case reports.FormatCSV:
		err = export.NewCSVExporter(export.DefaultCSVOptions()).Write(report, file)
	case reports.FormatXLSX:
		err = export.NewExcelExporter(export.DefaultExcelOptions()).Write(report, file)
	case reports.FormatPDF:
		err = export.NewPDFGenerator(export.DefaultPDFOptions()).Write(report, file)
	default:
		err = writeJSON(report, file)
	}
	if err != nil {
		m.logger.Error("failed to render scheduled report",
			zap.String("schedule_id", schedule.ID.String()),
			zap.Error(err))
		return
	}

	if err := m.recorder.UpdateLastRun(ctx, schedule.ID, time.Now()); err != nil {
		m.logger.Warn("failed to record schedule run",
			zap.String("schedule_id", schedule.ID.String()),
			zap.Error(err))
	}

	m.logger.Info("scheduled report written",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("path", path))
}

func writeJSON(report *reports.ProductReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
