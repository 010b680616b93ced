package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"github.com/kushistore/storefront/internal/auth/domain"
	"github.com/kushistore/storefront/internal/auth/store"
)

// MySQL error number for a duplicate entry on a unique key.
const erDupEntry = 1062

// dbtx is satisfied by both *sql.DB and *sql.Tx so the repo works inside and
// outside transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, email, phone, password_hash, avatar, is_active,
	reset_token_hash, reset_token_expires, last_login, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE reset_token_hash = ?`, tokenHash)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, phone, password_hash, avatar, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, nullString(u.Phone), u.PasswordHash, nullString(u.Avatar),
		u.Active, now, now,
	)
	if err != nil {
		var me *mysqldrv.MySQLError
		if errors.As(err, &me) && me.Number == erDupEntry {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), userID)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
}

func (r *usersRepo) SetResetToken(ctx context.Context, userID string, tokenHash string, expires time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET reset_token_hash = ?, reset_token_expires = ?, updated_at = ? WHERE id = ?`,
		tokenHash, expires.UTC(), time.Now().UTC(), userID)
}

func (r *usersRepo) ClearResetToken(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET reset_token_hash = NULL, reset_token_expires = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return r.exec(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), userID)
}

// exec runs a keyed UPDATE and maps "no row matched" to ErrNotFound.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		phone     sql.NullString
		avatar    sql.NullString
		resetHash sql.NullString
		resetExp  sql.NullTime
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &phone, &u.PasswordHash, &avatar, &u.Active,
		&resetHash, &resetExp, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Phone = stringPtr(phone)
	u.Avatar = stringPtr(avatar)
	u.ResetTokenHash = stringPtr(resetHash)
	u.ResetTokenExpires = timePtr(resetExp)
	u.LastLogin = timePtr(lastLogin)
	return u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}
