package repositories

import (
	"context"
	"database/sql"
	"errors"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) Create(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	var out models.User

	var exists int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE username = ?
	`, username).Scan(&exists)
	if err != nil {
		return out, domain.InternalError{Msg: "failed to check user", Err: err}
	}
	if exists > 0 {
		return out, domain.ValidationError{Field: "username", Msg: "already registered"}
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?)
	`, username, email, passwordHash)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return out, domain.ValidationError{Field: "username", Msg: "already registered"}
		}
		return out, domain.InternalError{Msg: "failed to insert user", Err: err}
	}

	id, _ := res.LastInsertId()
	out.ID = id
	out.Username = username
	out.Email = email
	return out, nil
}

func (r UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, domain.NotFoundError{Resource: "user", Err: err}
		}
		return u, domain.InternalError{Msg: "failed to query user", Err: err}
	}
	return u, nil
}

func (r UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, domain.NotFoundError{Resource: "user", Err: err}
		}
		return u, domain.InternalError{Msg: "failed to query user", Err: err}
	}
	return u, nil
}
