package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

func (r *OnboardingRepository) Upsert(ctx context.Context, p model.Onboarding) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO onboarding (user_id, name, age, emotions, gender_id, intensity_id, goal_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   name = excluded.name,
		   age = excluded.age,
		   emotions = excluded.emotions,
		   gender_id = excluded.gender_id,
		   intensity_id = excluded.intensity_id,
		   goal_id = excluded.goal_id,
		   updated_at = excluded.updated_at`,
		p.UserID, p.Name, p.Age, p.Emotions, p.GenderID, p.IntensityID, p.GoalID,
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
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
	var (
		p                             model.Onboarding
		name, emotions                sql.NullString
		age                           sql.NullInt64
		genderID, intensityID, goalID sql.NullInt64
		createdAt, updatedAt          int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, name, age, emotions, gender_id, intensity_id, goal_id, created_at, updated_at
		 FROM onboarding WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &name, &age, &emotions, &genderID, &intensityID, &goalID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Onboarding{}, model.ErrNotFound
		}
		return model.Onboarding{}, storageError("get onboarding", err)
	}

	if name.Valid {
		p.Name = &name.String
	}
	if emotions.Valid {
		p.Emotions = &emotions.String
	}
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	p.GenderID = nullInt64Ptr(genderID)
	p.IntensityID = nullInt64Ptr(intensityID)
	p.GoalID = nullInt64Ptr(goalID)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

func nullInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
