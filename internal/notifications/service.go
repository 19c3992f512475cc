package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ws "carbon-ledger/supplier-portal/supplier-portal-backend/internal/notifications/websocket"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/sharing"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

// Pusher is the live delivery side, satisfied by the websocket manager.
type Pusher interface {
	SendToCompany(companyID uuid.UUID, event ws.Event)
}

// Service persists in-app notifications and pushes live events. It satisfies
// sharing.Notifier so the sharing workflow stays decoupled from delivery.
type Service struct {
	repo   Repository
	pusher Pusher
	logger *zap.Logger
}

func NewService(repo Repository, pusher Pusher, logger *zap.Logger) *Service {
	return &Service{repo: repo, pusher: pusher, logger: logger}
}

const deliverTimeout = 5 * time.Second

func (s *Service) SharingRequestCreated(request *sharing.SharingRequest) {
	message := "A customer requested access to one of your product footprints"
	s.deliver(request.SupplierCompanyID, EventSharingRequestReceived, message, request)
}

func (s *Service) SharingRequestDecided(request *sharing.SharingRequest) {
	eventType := EventSharingRequestRejected
	message := "Your sharing request was rejected"
	if request.Status == workflows.StatusAccepted {
		eventType = EventSharingRequestAccepted
		message = "Your sharing request was accepted"
	}
	s.deliver(request.RequesterCompanyID, eventType, message, request)
}

// deliver stores the notification then pushes it. Sharing decisions must not
// fail because delivery did, so errors are logged and dropped.
func (s *Service) deliver(companyID uuid.UUID, eventType, message string, payload interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to marshal notification payload", zap.Error(err))
		data = []byte("{}")
	}

	notification := &Notification{
		ID:        uuid.New(),
		CompanyID: companyID,
		Type:      eventType,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error("failed to store notification",
			zap.String("type", eventType),
			zap.String("company_id", companyID.String()),
			zap.Error(err))
	}

	if s.pusher != nil {
		s.pusher.SendToCompany(companyID, ws.Event{
			Type:      eventType,
			Message:   message,
			Data:      data,
			Timestamp: notification.CreatedAt,
		})
	}
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByCompany(ctx, companyID, unreadOnly, limit)
}

func (s *Service) MarkRead(ctx context.Context, companyID, notificationID uuid.UUID) error {
	updated, err := s.repo.MarkRead(ctx, companyID, notificationID)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("notification not found")
	}
	return nil
}
