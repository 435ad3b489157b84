package store

import (
	"context"
	"errors"

	"github.com/tabberone/corkboard/internal/board/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for relational state (accounts
// and posts). Concrete drivers implement it; sub-repositories keep the
// concerns tidy and testable. Refresh tokens live elsewhere — see the
// tokenstore package — because they want a TTL key-value contract, not a
// relational one.
type Store interface {
	Users() Users
	Posts() Posts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn
	// errors and committing otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used at login and by the pipeline's identity
	// lookup.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// A duplicate username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users, newest first. Admin page only.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser removes the account; posts cascade per schema.
	DeleteUser(ctx context.Context, userID string) error
}

type Posts interface {
	// CreatePost inserts a new post (id is ULID).
	CreatePost(ctx context.Context, p domain.Post) error

	// GetPostByID returns one post with its author's username resolved.
	GetPostByID(ctx context.Context, id string) (domain.Post, error)

	// ListPosts returns all posts, newest first, authors resolved.
	ListPosts(ctx context.Context) ([]domain.Post, error)
}
