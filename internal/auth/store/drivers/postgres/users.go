package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kushistore/storefront/internal/auth/domain"
	"github.com/kushistore/storefront/internal/auth/store"
)

// SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx so the repo works inside
// and outside transactions.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, email, phone, password_hash, avatar, is_active,
	reset_token_hash, reset_token_expires, last_login, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE reset_token_hash = $1`, tokenHash)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, phone, password_hash, avatar, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Avatar, u.Active, now, now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET last_login = $1, updated_at = $2 WHERE id = $3`,
		at.UTC(), time.Now().UTC(), userID)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		newHash, time.Now().UTC(), userID)
}

func (r *usersRepo) SetResetToken(ctx context.Context, userID string, tokenHash string, expires time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET reset_token_hash = $1, reset_token_expires = $2, updated_at = $3 WHERE id = $4`,
		tokenHash, expires.UTC(), time.Now().UTC(), userID)
}

func (r *usersRepo) ClearResetToken(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET reset_token_hash = NULL, reset_token_expires = NULL, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return r.exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), userID)
}

// exec runs a keyed UPDATE and maps "no row matched" to ErrNotFound.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Avatar, &u.Active,
		&u.ResetTokenHash, &u.ResetTokenExpires, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, store.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
