// Package service holds the business logic between the HTTP handlers and
// the stores.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tabberone/corkboard/internal/board/domain"
	"github.com/tabberone/corkboard/internal/board/store"
	"github.com/tabberone/corkboard/internal/board/tokenstore"
	"github.com/tabberone/corkboard/pkg/cryptox"
	"github.com/tabberone/corkboard/pkg/idx"
	"github.com/tabberone/corkboard/pkg/jwtx"
	"github.com/tabberone/corkboard/pkg/slogx"
)

var (
	// ErrAuthenticationFailed covers both an unknown username and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrAuthenticationFailed = errors.New("authentication_failed")

	ErrUsernameTaken = errors.New("username_taken")
	ErrInvalidInput  = errors.New("invalid_input")
)

type AuthService struct {
	Codec  *jwtx.Codec
	Store  store.Store
	Tokens tokenstore.Store
}

// Register creates a new account with the default role. The raw password
// is hashed immediately and never stored or logged.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidInput
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("username", username))
	return u, nil
}

// Login verifies the credentials and, on success, issues an access/refresh
// token pair and stores the refresh token's fingerprint. Storing rotates:
// whatever refresh token the user held before this login is dead from here
// on.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed", slog.String("username", username))
			return domain.TokenPair{}, ErrAuthenticationFailed
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login failed", slog.String("username", username))
		return domain.TokenPair{}, ErrAuthenticationFailed
	}

	access, err := s.Codec.Issue(u.Username, u.Role, false)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.Codec.Issue(u.Username, u.Role, true)
	if err != nil {
		return domain.TokenPair{}, err
	}

	// Only the fingerprint is stored. A dump of the token store alone
	// cannot be replayed.
	err = s.Tokens.Put(ctx, u.Username, cryptox.FingerprintToken(refresh), s.Codec.RefreshTTL())
	if err != nil {
		return domain.TokenPair{}, err
	}

	l.Info("login succeeded", slog.String("username", username))
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout drops the stored refresh token so the silent-refresh path stops
// working. Outstanding access tokens simply run out their short expiry.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	if err := s.Tokens.Delete(ctx, username); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("logout", slog.String("username", username))
	return nil
}

// LoadIdentity resolves a username to its account. The authentication
// pipeline calls this on every authenticated request.
func (s *AuthService) LoadIdentity(ctx context.Context, username string) (domain.User, error) {
	return s.Store.Users().GetUserByUsername(ctx, username)
}
