package postgres

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

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

// UpsertCompletion relies on the unique constraint over the triple, so
// concurrent calls for the same level converge on one row.
func (r *CompletionRepository) UpsertCompletion(ctx context.Context, userID int64, island model.Island, level int, at time.Time) error {
	query := `INSERT INTO level_completions (user_id, island_id, level_number, completed, completed_at, created_at)
			  VALUES ($1, $2, $3, TRUE, $4, $4)
			  ON CONFLICT ON CONSTRAINT level_completions_user_island_level_key
			  DO UPDATE SET completed = TRUE, completed_at = EXCLUDED.completed_at`

	if _, err := r.db.Exec(ctx, query, userID, int64(island), level, at); err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrNotFound
		}
		return storageError("upsert level completion", err)
	}
	return nil
}

func (r *CompletionRepository) CompletedLevels(ctx context.Context, userID int64, island model.Island) ([]int, error) {
	query := `SELECT DISTINCT level_number FROM level_completions
			  WHERE user_id = $1 AND island_id = $2 AND completed AND level_number > 0`

	rows, err := r.db.Query(ctx, query, userID, int64(island))
	if err != nil {
		return nil, storageError("query completed levels", err)
	}

	levels, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, storageError("collect completed levels", err)
	}
	if levels == nil {
		levels = []int{}
	}

	sort.Ints(levels)
	return levels, nil
}

func (r *CompletionRepository) GetCompletion(ctx context.Context, userID int64, island model.Island, level int) (model.LevelCompletion, error) {
	query := `SELECT id, user_id, island_id, level_number, completed, completed_at, created_at
			  FROM level_completions
			  WHERE user_id = $1 AND island_id = $2 AND level_number = $3`

	var (
		c        model.LevelCompletion
		islandID int64
	)
	err := r.db.QueryRow(ctx, query, userID, int64(island), level).Scan(
		&c.ID, &c.UserID, &islandID, &c.Level, &c.Completed, &c.CompletedAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LevelCompletion{}, model.ErrNotFound
		}
		return model.LevelCompletion{}, storageError("get level completion", err)
	}

	c.Island = model.Island(islandID)
	return c, nil
}
