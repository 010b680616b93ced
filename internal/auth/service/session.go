// Package service implements the storefront session flows on top of the
// store and token packages. Handlers translate these results into HTTP; the
// service itself never sees a request or a response writer.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kushistore/storefront/internal/auth/domain"
	"github.com/kushistore/storefront/internal/auth/store"
	"github.com/kushistore/storefront/pkg/cryptox"
	"github.com/kushistore/storefront/pkg/idx"
	"github.com/kushistore/storefront/pkg/jwtx"
	"github.com/kushistore/storefront/pkg/slogx"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// DefaultResetTokenTTL is how long a password-reset token stays redeemable.
const DefaultResetTokenTTL = time.Hour

var (
	ErrValidation         = errors.New("validation_failed")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountDisabled    = errors.New("account_disabled")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidResetToken  = errors.New("invalid_reset_token")
)

// SessionService owns registration, login, token verification, profile
// retrieval and the password-reset flow.
type SessionService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier

	// Issuer is stamped into every issued token.
	Issuer string

	// TokenTTL is the session validity window. Zero means
	// jwtx.DefaultSessionTTL.
	TokenTTL time.Duration

	// ResetTokenTTL bounds password-reset tokens. Zero means
	// DefaultResetTokenTTL.
	ResetTokenTTL time.Duration
}

// Session is the result of a successful Register or Login: a signed token and
// the public projection of the account it belongs to.
type Session struct {
	Token string
	User  domain.PublicUser
}

// RegisterRequest carries the inputs for account creation. Phone is optional.
type RegisterRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a new account and opens a session for it.
//
// The email-uniqueness decision is delegated entirely to the store's unique
// constraint: two concurrent registrations with the same email race on the
// INSERT, exactly one wins, and the loser surfaces as ErrEmailTaken. There is
// deliberately no SELECT-then-INSERT pre-check.
func (s *SessionService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	log := slogx.FromContext(ctx)

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, ErrValidation
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrValidation
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Info("user registered", "user_id", user.ID)

	token, err := s.issueToken(user, now)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user.Public()}, nil
}

// Login authenticates an email/password pair and opens a session.
//
// Unknown email and wrong password both return ErrInvalidCredentials, so a
// caller can't probe which emails have accounts. The disabled-account check
// runs only after the password verifies, for the same reason.
func (s *SessionService) Login(ctx context.Context, email, password string) (*Session, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		return nil, ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	log.Info("user logged in", "user_id", user.ID)

	token, err := s.issueToken(user, now)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user.Public()}, nil
}

// VerifyToken validates a session token and returns its claims. Any
// verification failure collapses to ErrInvalidToken; the service does not
// distinguish expired from forged for callers.
func (s *SessionService) VerifyToken(ctx context.Context, token string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// GetProfile returns the current public projection of the given account,
// fresh from the store rather than the (possibly stale) token claims.
func (s *SessionService) GetProfile(ctx context.Context, userID string) (domain.PublicUser, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// ForgotPassword starts the reset flow for the given email. Only the token's
// fingerprint is persisted; the opaque token itself is returned so a mailer
// can deliver it. An unknown email returns ("", nil) so the endpoint's
// response can't be used to enumerate accounts.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) (string, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrValidation
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	ttl := s.ResetTokenTTL
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	expires := time.Now().UTC().Add(ttl)

	if err := s.Store.Users().SetResetToken(ctx, user.ID, cryptox.FingerprintToken(token), expires); err != nil {
		return "", err
	}

	log.Info("password reset requested", "user_id", user.ID)
	return token, nil
}

// ResetPassword redeems a reset token and replaces the account's password.
// The hash swap and token clear commit atomically so a token can't be
// redeemed twice.
func (s *SessionService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := slogx.FromContext(ctx)

	if token == "" || newPassword == "" {
		return ErrValidation
	}
	if len(newPassword) < MinPasswordLength {
		return ErrValidation
	}

	user, err := s.Store.Users().GetUserByResetTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if user.ResetTokenExpires == nil || time.Now().UTC().After(*user.ResetTokenExpires) {
		return ErrInvalidResetToken
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return tx.Users().ClearResetToken(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	log.Info("password reset completed", "user_id", user.ID)
	return nil
}

func (s *SessionService) issueToken(user domain.User, now time.Time) (string, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	claims := jwtx.NewSessionClaims(user.ID, user.Email, user.Name, ttl, s.Issuer, now)
	return s.Signer.Sign(claims)
}
