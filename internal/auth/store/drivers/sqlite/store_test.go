package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kushistore/storefront/internal/auth/domain"
	"github.com/kushistore/storefront/internal/auth/store"
	"github.com/kushistore/storefront/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "store.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	st, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *Store, email string) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$12$fakehashfakehashfakehash",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "a@example.com")

	dup := domain.User{
		ID:           idx.New().String(),
		Name:         "Other",
		Email:        "a@example.com",
		PasswordHash: "hash",
		Active:       true,
	}
	err := st.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetUser(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, st, "get@example.com")

	t.Run("by id", func(t *testing.T) {
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.True(t, got.Active)
		require.Nil(t, got.Phone)
		require.Nil(t, got.LastLogin)
	})

	t.Run("by email", func(t *testing.T) {
		got, err := st.Users().GetUserByEmail(ctx, "get@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("missing rows map to ErrNotFound", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Users().GetUserByEmail(ctx, "missing@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("email match is exact", func(t *testing.T) {
		_, err := st.Users().GetUserByEmail(ctx, "GET@EXAMPLE.COM")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestKeyedUpdates(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, st, "upd@example.com")

	t.Run("UpdateLastLogin", func(t *testing.T) {
		at := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, st.Users().UpdateLastLogin(ctx, u.ID, at))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLogin)
		require.True(t, got.LastLogin.Equal(at))
	})

	t.Run("SetActive", func(t *testing.T) {
		require.NoError(t, st.Users().SetActive(ctx, u.ID, false))
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, got.Active)

		require.NoError(t, st.Users().SetActive(ctx, u.ID, true))
	})

	t.Run("reset token set and clear", func(t *testing.T) {
		expires := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
		require.NoError(t, st.Users().SetResetToken(ctx, u.ID, "fingerprint-abc", expires))

		got, err := st.Users().GetUserByResetTokenHash(ctx, "fingerprint-abc")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.NotNil(t, got.ResetTokenExpires)

		require.NoError(t, st.Users().ClearResetToken(ctx, u.ID))
		_, err = st.Users().GetUserByResetTokenHash(ctx, "fingerprint-abc")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("updates against unknown ids are ErrNotFound", func(t *testing.T) {
		ghost := idx.New().String()
		require.ErrorIs(t, st.Users().UpdateLastLogin(ctx, ghost, time.Now()), store.ErrNotFound)
		require.ErrorIs(t, st.Users().UpdatePasswordHash(ctx, ghost, "h"), store.ErrNotFound)
		require.ErrorIs(t, st.Users().SetActive(ctx, ghost, false), store.ErrNotFound)
	})
}

func TestWithTx(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, st, "tx@example.com")

	t.Run("commit applies both writes", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"); err != nil {
				return err
			}
			return tx.Users().SetResetToken(ctx, u.ID, "fp", time.Now().UTC().Add(time.Hour))
		})
		require.NoError(t, err)

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)
		require.NotNil(t, got.ResetTokenHash)
	})

	t.Run("error rolls back every write", func(t *testing.T) {
		boom := errors.New("boom")
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().UpdatePasswordHash(ctx, u.ID, "discarded"); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)
	})

	t.Run("nested transactions are rejected", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Tx(ctx)
			return err
		})
		require.Error(t, err)
	})
}
