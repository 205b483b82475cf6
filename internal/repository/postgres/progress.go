package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mento-app/mento-server/internal/model"
)

var _ model.ProgressStore = (*ProgressRepository)(nil)

type ProgressRepository struct {
	db *Connection
}

func NewProgressRepository(db *Connection) *ProgressRepository {
	return &ProgressRepository{
		db: db,
	}
}

const progressColumns = `id, user_id, island_id, current_level, started_at, updated_at`

// Ensure creates the pointer row when absent. The xmax trick tells a fresh
// insert apart from an existing row in a single round trip.
func (r *ProgressRepository) Ensure(ctx context.Context, userID int64, now time.Time) (model.Progress, bool, error) {
	query := `INSERT INTO progress (user_id, current_level, started_at, updated_at)
			  VALUES ($1, 1, $2, $2)
			  ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
			  RETURNING ` + progressColumns + `, (xmax = 0) AS inserted`

	var (
		p        model.Progress
		islandID *int64
		inserted bool
	)
	err := r.db.QueryRow(ctx, query, userID, now).Scan(
		&p.ID, &p.UserID, &islandID, &p.CurrentLevel, &p.StartedAt, &p.UpdatedAt, &inserted,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Progress{}, false, model.ErrNotFound
		}
		return model.Progress{}, false, storageError("ensure progress", err)
	}
	p.Island = toIsland(islandID)
	return p, inserted, nil
}

func (r *ProgressRepository) Set(ctx context.Context, userID int64, island model.Island, level int, now time.Time) (model.Progress, error) {
	query := `INSERT INTO progress (user_id, island_id, current_level, started_at, updated_at)
			  VALUES ($1, $2, $3, $4, $4)
			  ON CONFLICT (user_id) DO UPDATE SET
			    island_id = EXCLUDED.island_id,
			    current_level = EXCLUDED.current_level,
			    updated_at = EXCLUDED.updated_at
			  RETURNING ` + progressColumns

	return r.write(ctx, "set progress", query, userID, int64(island), level, now)
}

func (r *ProgressRepository) Reset(ctx context.Context, userID int64, now time.Time) (model.Progress, error) {
	query := `INSERT INTO progress (user_id, current_level, started_at, updated_at)
			  VALUES ($1, 1, $2, $2)
			  ON CONFLICT (user_id) DO UPDATE SET current_level = 1, updated_at = EXCLUDED.updated_at
			  RETURNING ` + progressColumns

	return r.write(ctx, "reset progress", query, userID, now)
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64) ([]model.Progress, error) {
	rows, err := r.db.Query(ctx, `SELECT `+progressColumns+` FROM progress WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, storageError("list progress", err)
	}
	defer rows.Close()

	list := []model.Progress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, storageError("scan progress", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate progress", err)
	}
	return list, nil
}

func (r *ProgressRepository) write(ctx context.Context, op, query string, args ...any) (model.Progress, error) {
	p, err := scanProgress(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Progress{}, model.ErrNotFound
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Progress{}, model.ErrNotFound
		}
		return model.Progress{}, storageError(op, err)
	}
	return p, nil
}

func scanProgress(row pgx.Row) (model.Progress, error) {
	var (
		p        model.Progress
		islandID *int64
	)
	if err := row.Scan(&p.ID, &p.UserID, &islandID, &p.CurrentLevel, &p.StartedAt, &p.UpdatedAt); err != nil {
		return model.Progress{}, err
	}
	p.Island = toIsland(islandID)
	return p, nil
}

func toIsland(id *int64) *model.Island {
	if id == nil {
		return nil
	}
	island := model.Island(*id)
	return &island
}
