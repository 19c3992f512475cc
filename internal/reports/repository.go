package reports

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateSchedule(ctx context.Context, schedule *Schedule) error
	GetScheduleByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	ListSchedules(ctx context.Context, companyID uuid.UUID) ([]Schedule, error)
	ListAllSchedules(ctx context.Context) ([]Schedule, error)
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
	UpdateLastRun(ctx context.Context, id uuid.UUID, ranAt time.Time) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateSchedule(ctx context.Context, schedule *Schedule) error {
	query := `
		INSERT INTO report_schedules (
			id, company_id, product_id, format, cron_expr
		) VALUES (
			:id, :company_id, :product_id, :format, :cron_expr
		)`
	_, err := r.db.NamedExecContext(ctx, query, schedule)
	return err
}

func (r *postgresRepository) GetScheduleByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	var schedule Schedule
	err := r.db.GetContext(ctx, &schedule, "SELECT * FROM report_schedules WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &schedule, err
}

func (r *postgresRepository) ListSchedules(ctx context.Context, companyID uuid.UUID) ([]Schedule, error) {
	var schedules []Schedule
	err := r.db.SelectContext(ctx, &schedules,
		"SELECT * FROM report_schedules WHERE company_id = $1 ORDER BY created_at DESC", companyID)
	return schedules, err
}

func (r *postgresRepository) ListAllSchedules(ctx context.Context) ([]Schedule, error) {
	var schedules []Schedule
	err := r.db.SelectContext(ctx, &schedules, "SELECT * FROM report_schedules ORDER BY created_at ASC")
	return schedules, err
}

func (r *postgresRepository) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM report_schedules WHERE id = $1", id)
	return err
}

func (r *postgresRepository) UpdateLastRun(ctx context.Context, id uuid.UUID, ranAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE report_schedules SET last_run_at = $2 WHERE id = $1", id, ranAt)
	return err
}
