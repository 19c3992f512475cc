package settings

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile returns the user's stored profile, or sensible defaults when
// nothing has been saved yet.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &UserProfile{
			UserID:   userID,
			Language: "en",
			Timezone: "UTC",
		}, nil
	}
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserProfile, error) {
	profile := &UserProfile{
		UserID:      userID,
		FullName:    req.FullName,
		DisplayName: req.DisplayName,
		Language:    req.Language,
		Timezone:    req.Timezone,
	}
	if profile.Language == "" {
		profile.Language = "en"
	}
	if profile.Timezone == "" {
		profile.Timezone = "UTC"
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
