package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mzhdanov/authd/internal/models"
	"github.com/mzhdanov/authd/internal/storage"
)

type UserRepository struct {
	db storage.DBTX
}

func NewUserRepository(db storage.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, username, hashedPassword string) (*models.User, error) {
	var user models.User
	query := `INSERT INTO users (username, hashed_password) VALUES ($1, $2)
	          RETURNING id, username, first_name, last_name, hashed_password`
	err := r.db.QueryRowContext(ctx, query, username, hashedPassword).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.HashedPassword,
	)
	if err != nil {
		if translated := translatePqError(err); translated != nil {
			return nil, translated
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, first_name, last_name, hashed_password FROM users WHERE username = $1`
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.HashedPassword,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, first_name, last_name, hashed_password FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.HashedPassword,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) error {
	query := `UPDATE users SET
	            first_name = COALESCE($2, first_name),
	            last_name  = COALESCE($3, last_name)
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, patch.FirstName, patch.LastName)
	if err != nil {
		if translated := translatePqError(err); translated != nil {
			return translated
		}
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// translatePqError maps driver-level constraint violations onto the storage
// sentinels. Returns nil for errors the caller should wrap as-is.
func translatePqError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch pqErr.Code {
	case "23505": // unique_violation
		return storage.ErrAlreadyExists
	case "23503": // foreign_key_violation
		return storage.ErrNotFound
	case "22001", "22003", "23514": // value too long, numeric out of range, check_violation
		return storage.ErrValueOutOfRange
	}
	return nil
}
