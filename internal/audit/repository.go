package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, page, pageSize int) (*Page, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, page, pageSize int) (*Page, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&AuditLog{}).
		Where("company_id = ?", companyID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []AuditLog
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return &Page{
		Entries:  entries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
