package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is one recorded mutation against a company's data.
type AuditLog struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID      `json:"company_id" gorm:"type:uuid;index"`
	UserID     uuid.UUID      `json:"user_id" gorm:"type:uuid"`
	Action     string         `json:"action"`      // 'CREATE', 'UPDATE', 'DELETE', 'ACCEPT', 'REJECT', 'REQUEST'
	EntityType string         `json:"entity_type"` // 'line_item', 'transport_emission', 'production_energy_emission', 'sharing_request', 'product'
	EntityID   uuid.UUID      `json:"entity_id" gorm:"type:uuid"`
	Detail     datatypes.JSON `json:"detail"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Page is one page of audit entries plus the total count for pagination.
type Page struct {
	Entries  []AuditLog `json:"entries"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}
