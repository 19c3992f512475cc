package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types pushed over the wire and stored in-app.
const (
	EventSharingRequestReceived = "SHARING_REQUEST_RECEIVED"
	EventSharingRequestAccepted = "SHARING_REQUEST_ACCEPTED"
	EventSharingRequestRejected = "SHARING_REQUEST_REJECTED"
)

// Notification is one in-app notification addressed to a company.
type Notification struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	CompanyID uuid.UUID       `json:"company_id" db:"company_id"`
	Type      string          `json:"type" db:"type"`
	Message   string          `json:"message" db:"message"`
	Data      json.RawMessage `json:"data" db:"data"`
	ReadAt    *time.Time      `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
