package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/mento-app/mento-server/internal/coerce"
	"github.com/mento-app/mento-server/internal/model"
)

var _ model.CompletionStore = (*CompletionRepository)(nil)

type CompletionRepository struct {
	db *Connection
}

func NewCompletionRepository(db *Connection) *CompletionRepository {
	return &CompletionRepository{
		db: db,
	}
}

// UpsertCompletion inserts or updates the row for the triple in one statement.
// The completed flag never goes back to 0; the latest write sets completed_at.
func (r *CompletionRepository) UpsertCompletion(ctx context.Context, userID int64, island model.Island, level int, at time.Time) error {
	const query = `
		INSERT INTO level_completions (user_id, island_id, level_number, completed, completed_at, created_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (user_id, island_id, level_number)
		DO UPDATE SET completed = 1, completed_at = excluded.completed_at`

	ms := toMillis(at)
	if _, err := r.db.ExecContext(ctx, query, userID, int64(island), level, ms, ms); err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrNotFound
		}
		return storageError("upsert level completion", err)
	}
	return nil
}

// CompletedLevels returns completed level numbers ascending. Values that do
// not coerce to an integer are skipped.
func (r *CompletionRepository) CompletedLevels(ctx context.Context, userID int64, island model.Island) ([]int, error) {
	const query = `
		SELECT level_number FROM level_completions
		WHERE user_id = ? AND island_id = ? AND completed = 1`

	rows, err := r.db.QueryContext(ctx, query, userID, int64(island))
	if err != nil {
		return nil, storageError("query completed levels", err)
	}
	defer rows.Close()

	levels := []int{}
	seen := make(map[int]struct{})
	for rows.Next() {
		var raw any
		if err := rows.Scan(&raw); err != nil {
			return nil, storageError("scan completed level", err)
		}
		if b, ok := raw.([]byte); ok {
			raw = string(b)
		}
		level, err := coerce.ID(raw)
		if err != nil || level <= 0 {
			continue
		}
		if _, dup := seen[int(level)]; dup {
			continue
		}
		seen[int(level)] = struct{}{}
		levels = append(levels, int(level))
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate completed levels", err)
	}

	sort.Ints(levels)
	return levels, nil
}

func (r *CompletionRepository) GetCompletion(ctx context.Context, userID int64, island model.Island, level int) (model.LevelCompletion, error) {
	const query = `
		SELECT id, user_id, island_id, level_number, completed, completed_at, created_at
		FROM level_completions
		WHERE user_id = ? AND island_id = ? AND level_number = ?`

	var (
		c           model.LevelCompletion
		islandID    int64
		completed   int
		completedAt sql.NullInt64
		createdAt   int64
	)
	err := r.db.QueryRowContext(ctx, query, userID, int64(island), level).Scan(
		&c.ID, &c.UserID, &islandID, &c.Level, &completed, &completedAt, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LevelCompletion{}, model.ErrNotFound
		}
		return model.LevelCompletion{}, storageError("get level completion", err)
	}

	c.Island = model.Island(islandID)
	c.Completed = completed != 0
	c.CompletedAt = fromNullMillis(completedAt)
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}
