package settings

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds per-user display settings.
type UserProfile struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	FullName    string    `json:"full_name" db:"full_name"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Language    string    `json:"language" db:"language"`
	Timezone    string    `json:"timezone" db:"timezone"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateProfileRequest struct {
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
	Timezone    string `json:"timezone"`
}
