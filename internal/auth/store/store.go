package store

import (
	"context"
	"errors"
	"time"

	"github.com/kushistore/storefront/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, mysql,
// postgres) implement this; the service layer never sees a SQL dialect. The
// sub-repository accessor keeps room for the catalog tables that share the
// same database without widening this interface all at once.
type Store interface {
	Users() Users

	// ApplyMigrations brings the schema up to date using the driver's
	// embedded migration files.
	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST Commit() or Rollback() the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases the underlying pool.
	Close() error
}

// Tx is a transactional store. Same repos, plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login; the match is exact.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// A duplicate email MUST surface as ErrAlreadyExists from the store's
	// unique constraint; callers rely on the constraint, not a pre-check,
	// to resolve concurrent registrations.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateLastLogin records a successful authentication.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// UpdatePasswordHash replaces the stored credential and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetResetToken stores the fingerprint of an outstanding password-reset
	// token with its expiry, replacing any prior one.
	SetResetToken(ctx context.Context, userID string, tokenHash string, expires time.Time) error

	// GetUserByResetTokenHash finds the account holding this reset-token
	// fingerprint. Expiry is checked by the service, not the query, so an
	// expired token still identifies the row it belonged to.
	GetUserByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error)

	// ClearResetToken removes the reset fields after use.
	ClearResetToken(ctx context.Context, userID string) error

	// SetActive flips the account-disabled flag.
	SetActive(ctx context.Context, userID string, active bool) error
}
