package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

func (r *ProgressRepository) Ensure(ctx context.Context, userID int64, now time.Time) (model.Progress, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO progress (user_id, current_level, started_at, updated_at)
		 VALUES (?, 1, ?, ?)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, toMillis(now), toMillis(now),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Progress{}, false, model.ErrNotFound
		}
		return model.Progress{}, false, storageError("ensure progress", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Progress{}, false, storageError("ensure progress rows", err)
	}

	p, err := r.get(ctx, userID)
	if err != nil {
		return model.Progress{}, false, err
	}
	return p, n == 1, nil
}

func (r *ProgressRepository) Set(ctx context.Context, userID int64, island model.Island, level int, now time.Time) (model.Progress, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO progress (user_id, island_id, current_level, started_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   island_id = excluded.island_id,
		   current_level = excluded.current_level,
		   updated_at = excluded.updated_at`,
		userID, int64(island), level, toMillis(now), toMillis(now),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Progress{}, model.ErrNotFound
		}
		return model.Progress{}, storageError("set progress", err)
	}
	return r.get(ctx, userID)
}

func (r *ProgressRepository) Reset(ctx context.Context, userID int64, now time.Time) (model.Progress, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO progress (user_id, current_level, started_at, updated_at)
		 VALUES (?, 1, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET current_level = 1, updated_at = excluded.updated_at`,
		userID, toMillis(now), toMillis(now),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Progress{}, model.ErrNotFound
		}
		return model.Progress{}, storageError("reset progress", err)
	}
	return r.get(ctx, userID)
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64) ([]model.Progress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+progressColumns+` FROM progress WHERE user_id = ? ORDER BY id`, userID)
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

func (r *ProgressRepository) get(ctx context.Context, userID int64) (model.Progress, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+progressColumns+` FROM progress WHERE user_id = ?`, userID)
	p, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Progress{}, model.ErrNotFound
		}
		return model.Progress{}, storageError("get progress", err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgress(s scanner) (model.Progress, error) {
	var (
		p         model.Progress
		islandID  sql.NullInt64
		startedAt int64
		updatedAt int64
	)
	if err := s.Scan(&p.ID, &p.UserID, &islandID, &p.CurrentLevel, &startedAt, &updatedAt); err != nil {
		return model.Progress{}, err
	}
	if islandID.Valid {
		island := model.Island(islandID.Int64)
		p.Island = &island
	}
	p.StartedAt = fromMillis(startedAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}
