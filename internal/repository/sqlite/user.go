package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mento-app/mento-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, created_at, last_login_at) VALUES (?, ?, ?, ?)`,
		user.Email, user.PasswordHash, toMillis(user.CreatedAt), nullMillis(user.LastLoginAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, storageError("create user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, storageError("create user id", err)
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, last_login_at FROM users WHERE email = ?`, email)
	return scanUser(row, "get user by email")
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, last_login_at FROM users WHERE id = ?`, id)
	return scanUser(row, "get user by id")
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var found int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, storageError("check user exists", err)
	}
	return true, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, toMillis(at), id)
	if err != nil {
		return storageError("touch last login", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageError("touch last login rows", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row, op string) (model.User, error) {
	var (
		user      model.User
		createdAt int64
		lastLogin sql.NullInt64
	)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, storageError(op, err)
	}
	user.CreatedAt = fromMillis(createdAt)
	user.LastLoginAt = fromNullMillis(lastLogin)
	return user, nil
}
