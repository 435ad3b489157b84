package service

import (
	"context"
	"log/slog"

	"github.com/tabberone/corkboard/internal/board/domain"
	"github.com/tabberone/corkboard/internal/board/store"
	"github.com/tabberone/corkboard/internal/board/tokenstore"
	"github.com/tabberone/corkboard/pkg/slogx"
)

// UserService carries the administrative account operations.
type UserService struct {
	Store  store.Store
	Tokens tokenstore.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ListUsers returns all accounts, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// DeleteUser removes an account. Posts cascade in the database; the
// stored refresh token is invalidated here so the silent-refresh path dies
// with the account.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return err
	}

	if err := s.Tokens.Delete(ctx, u.Username); err != nil {
		// The account is gone, so the refresh token will stop working
		// at the identity lookup anyway. Log and report the outage.
		slogx.FromContext(ctx).Warn("refresh token cleanup failed",
			slog.String("username", u.Username), "err", err)
		return err
	}

	slogx.FromContext(ctx).Info("user deleted", slog.String("username", u.Username))
	return nil
}
