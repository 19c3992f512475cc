package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Entry is the shape mutating services hand to the recorder.
type Entry struct {
	CompanyID  uuid.UUID
	UserID     uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Detail     map[string]interface{}
}

// Recorder is what mutating services depend on. Recording failures never fail
// the mutation itself; they are logged and dropped.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Record(ctx context.Context, entry Entry) {
	detail, err := json.Marshal(entry.Detail)
	if err != nil {
		s.logger.Warn("failed to marshal audit detail", zap.Error(err))
		detail = []byte("{}")
	}

	log := &AuditLog{
		ID:         uuid.New(),
		CompanyID:  entry.CompanyID,
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Detail:     datatypes.JSON(detail),
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error("failed to record audit entry",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
	}
}

func (s *Service) ListByCompany(ctx context.Context, companyID uuid.UUID, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.ListByCompany(ctx, companyID, page, pageSize)
}
