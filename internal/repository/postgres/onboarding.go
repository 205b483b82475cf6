package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mento-app/mento-server/internal/model"
)

var _ model.OnboardingStore = (*OnboardingRepository)(nil)

type OnboardingRepository struct {
	db *Connection
}

func NewOnboardingRepository(db *Connection) *OnboardingRepository {
	return &OnboardingRepository{
		db: db,
	}
}

func (r *OnboardingRepository) Upsert(ctx context.Context, o model.Onboarding) error {
	query := `INSERT INTO onboarding (user_id, name, age, emotions, gender_id, intensity_id, goal_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			  ON CONFLICT (user_id) DO UPDATE SET
			    name = EXCLUDED.name,
			    age = EXCLUDED.age,
			    emotions = EXCLUDED.emotions,
			    gender_id = EXCLUDED.gender_id,
			    intensity_id = EXCLUDED.intensity_id,
			    goal_id = EXCLUDED.goal_id,
			    updated_at = EXCLUDED.updated_at`

	now := o.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, query,
		o.UserID, o.Name, o.Age, o.Emotions, o.GenderID, o.IntensityID, o.GoalID, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrNotFound
		}
		return storageError("upsert onboarding", err)
	}
	return nil
}

func (r *OnboardingRepository) GetByUserID(ctx context.Context, userID int64) (model.Onboarding, error) {
	query := `SELECT user_id, name, age, emotions, gender_id, intensity_id, goal_id, created_at, updated_at
			  FROM onboarding WHERE user_id = $1`

	var o model.Onboarding
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&o.UserID, &o.Name, &o.Age, &o.Emotions, &o.GenderID, &o.IntensityID, &o.GoalID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Onboarding{}, model.ErrNotFound
		}
		return model.Onboarding{}, storageError("get onboarding", err)
	}
	return o, nil
}
