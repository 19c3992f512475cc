package settings

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	UpsertProfile(ctx context.Context, profile *UserProfile) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	var profile UserProfile
	err := r.db.GetContext(ctx, &profile, "SELECT * FROM user_settings WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &profile, err
}

func (r *postgresRepository) UpsertProfile(ctx context.Context, profile *UserProfile) error {
	query := `
		INSERT INTO user_settings (
			user_id, full_name, display_name, language, timezone, updated_at
		) VALUES (
			:user_id, :full_name, :display_name, :language, :timezone, NOW()
		)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			display_name = EXCLUDED.display_name,
			language = EXCLUDED.language,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()`
	_, err := r.db.NamedExecContext(ctx, query, profile)
	return err
}
