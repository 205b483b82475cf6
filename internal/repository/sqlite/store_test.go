package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mento-app/mento-server/internal/model"
)

func openTempConnection(t *testing.T) *Connection {
	t.Helper()

	conn, err := NewConnection(context.Background(), filepath.Join(t.TempDir(), "mento.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createUser(t *testing.T, conn *Connection, email string) model.User {
	t.Helper()

	user, err := NewUserRepository(conn).Create(context.Background(), model.User{
		Email:        email,
		PasswordHash: []byte("hash"),
	})
	require.NoError(t, err)
	return user
}

func countRows(t *testing.T, conn *Connection, userID int64, island model.Island, level int) int {
	t.Helper()

	var n int
	err := conn.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM level_completions WHERE user_id = ? AND island_id = ? AND level_number = ?`,
		userID, int64(island), level,
	).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestNewConnection_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := NewConnection(context.Background(), " ")
	assert.Error(t, err)
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := openTempConnection(t)
	repo := NewUserRepository(conn)

	saved := createUser(t, conn, "ana@example.com")
	assert.Positive(t, saved.ID)
	assert.Nil(t, saved.LastLoginAt)

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
	assert.Equal(t, []byte("hash"), byEmail.PasswordHash)

	_, err = repo.Create(ctx, model.User{Email: "ana@example.com", PasswordHash: []byte("x")})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	_, err = repo.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, model.ErrNotFound)

	ok, err := repo.Exists(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, 999999)
	require.NoError(t, err)
	assert.False(t, ok)

	login := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastLogin(ctx, saved.ID, login))
	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, login.Equal(*got.LastLoginAt))

	assert.ErrorIs(t, repo.TouchLastLogin(ctx, 999999, login), model.ErrNotFound)
}

func TestCompletionRepository_UpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := openTempConnection(t)
	repo := NewCompletionRepository(conn)
	user := createUser(t, conn, "idem@example.com")

	first := time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	require.NoError(t, repo.UpsertCompletion(ctx, user.ID, model.IslandFamily, 3, first))
	require.NoError(t, repo.UpsertCompletion(ctx, user.ID, model.IslandFamily, 3, second))

	assert.Equal(t, 1, countRows(t, conn, user.ID, model.IslandFamily, 3))

	c, err := repo.GetCompletion(ctx, user.ID, model.IslandFamily, 3)
	require.NoError(t, err)
	assert.True(t, c.Completed)
	require.NotNil(t, c.CompletedAt)
	assert.True(t, second.Equal(*c.CompletedAt), "last write wins on completion timestamp")
	assert.True(t, first.Equal(c.CreatedAt), "creation timestamp is kept")
}

func TestCompletionRepository_ConcurrentUpsertsKeepOneRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := openTempConnection(t)
	repo := NewCompletionRepository(conn)
	user := createUser(t, conn, "race@example.com")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.UpsertCompletion(ctx, user.ID, model.IslandHealth, 2, time.Now().Add(time.Duration(i)*time.Millisecond))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, countRows(t, conn, user.ID, model.IslandHealth, 2))
}

func TestCompletionRepository_CompletedLevels(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := openTempConnection(t)
	repo := NewCompletionRepository(conn)
	user := createUser(t, conn, "levels@example.com")
	other := createUser(t, conn, "other@example.com")
	now := time.Now()

	levels, err := repo.CompletedLevels(ctx, user.ID, model.IslandFamily)
	require.NoError(t, err)
	assert.Equal(t, []int{}, levels)

	for _, level := range []int{3, 1, 2} {
		require.NoError(t, repo.UpsertCompletion(ctx, user.ID, model.IslandFamily, level, now))
	}
	require.NoError(t, repo.UpsertCompletion(ctx, user.ID, model.IslandWork, 4, now))
	require.NoError(t, repo.UpsertCompletion(ctx, other.ID, model.IslandFamily, 5, now))

	// An uncompleted row and a legacy text-typed row.
	_, err = conn.ExecContext(ctx,
		`INSERT INTO level_completions (user_id, island_id, level_number, completed, created_at) VALUES (?, ?, 4, 0, 0)`,
		user.ID, int64(model.IslandFamily))
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx,
		`INSERT INTO level_completions (user_id, island_id, level_number, completed, created_at) VALUES (?, ?, '5', 1, 0)`,
		user.ID, int64(model.IslandRelationships))
	require.NoError(t, err)

	levels, err = repo.CompletedLevels(ctx, user.ID, model.IslandFamily)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, levels)

	levels, err = repo.CompletedLevels(ctx, user.ID, model.IslandRelationships)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, levels)
}

func TestCompletionRepository_UnknownUserIsNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := openTempConnection(t)
	repo := NewCompletionRepository(conn)

	err := repo.UpsertCompletion(ctx, 999999, model.IslandFamily, 2, time.Now())
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 0, countRows(t, conn, 999999, model.IslandFamily, 2))

	_, err = repo.GetCompletion(ctx, 999999, model.IslandFamily, 2)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCompletionRepository_CascadeOnUserDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := openTempConnection(t)
	repo := NewCompletionRepository(conn)
	user := createUser(t, conn, "gone@example.com")

	require.NoError(t, repo.UpsertCompletion(ctx, user.ID, model.IslandWork, 1, time.Now()))
	_, err := conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, countRows(t, conn, user.ID, model.IslandWork, 1))
}

func TestProgressRepository_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := openTempConnection(t)
	repo := NewProgressRepository(conn)
	user := createUser(t, conn, "pointer@example.com")
	now := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)

	p, created, err := repo.Ensure(ctx, user.ID, now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, p.CurrentLevel)
	assert.Nil(t, p.Island)

	_, created, err = repo.Ensure(ctx, user.ID, now)
	require.NoError(t, err)
	assert.False(t, created)

	p, err = repo.Set(ctx, user.ID, model.IslandHealth, 4, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 4, p.CurrentLevel)
	require.NotNil(t, p.Island)
	assert.Equal(t, model.IslandHealth, *p.Island)

	p, err = repo.Reset(ctx, user.ID, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, p.CurrentLevel)
	assert.True(t, now.Equal(p.StartedAt))

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, _, err = repo.Ensure(ctx, 999999, now)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = repo.Reset(ctx, 999999, now)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestOnboardingRepository_Upsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := openTempConnection(t)
	repo := NewOnboardingRepository(conn)
	user := createUser(t, conn, "onboard@example.com")

	_, err := repo.GetByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	name := "Ana"
	age := 24
	require.NoError(t, repo.Upsert(ctx, model.Onboarding{UserID: user.ID, Name: &name, Age: &age}))

	name2 := "Ana María"
	goal := int64(2)
	require.NoError(t, repo.Upsert(ctx, model.Onboarding{UserID: user.ID, Name: &name2, GoalID: &goal}))

	got, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Ana María", *got.Name)
	assert.Nil(t, got.Age)
	require.NotNil(t, got.GoalID)
	assert.Equal(t, int64(2), *got.GoalID)

	err = repo.Upsert(ctx, model.Onboarding{UserID: 999999})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCompletionRepository_ManyUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn := openTempConnection(t)
	repo := NewCompletionRepository(conn)

	for i := 0; i < 3; i++ {
		user := createUser(t, conn, fmt.Sprintf("u%d@example.com", i))
		for level := 1; level <= i+1; level++ {
			require.NoError(t, repo.UpsertCompletion(ctx, user.ID, model.IslandWork, level, time.Now()))
		}
		levels, err := repo.CompletedLevels(ctx, user.ID, model.IslandWork)
		require.NoError(t, err)
		assert.Len(t, levels, i+1)
	}
}

func TestNewConnection_InMemory(t *testing.T) {
	for _, dsn := range []string{":memory:", "file::memory:"} {
		t.Run(dsn, func(t *testing.T) {
			ctx := context.Background()
			conn, err := NewConnection(ctx, dsn)
			require.NoError(t, err)
			t.Cleanup(func() { _ = conn.Close() })

			assert.Equal(t, 1, conn.Stats().MaxOpenConnections)

			user := createUser(t, conn, "memory@example.com")
			repo := NewCompletionRepository(conn)

			var wg sync.WaitGroup
			errs := make(chan error, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(level int) {
					defer wg.Done()
					errs <- repo.UpsertCompletion(ctx, user.ID, model.IslandWork, level%5+1, time.Now())
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err, "every goroutine sees the migrated schema")
			}

			levels, err := repo.CompletedLevels(ctx, user.ID, model.IslandWork)
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3, 4, 5}, levels)
		})
	}
}
