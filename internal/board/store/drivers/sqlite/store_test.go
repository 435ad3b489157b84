package sqlite_test

import (
	"testing"
	"time"

	"github.com/tabberone/corkboard/internal/board/domain"
	"github.com/tabberone/corkboard/internal/board/store"
	"github.com/tabberone/corkboard/internal/board/store/drivers/sqlite"
	"github.com/tabberone/corkboard/pkg/idx"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(username, role string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "$argon2id$fake",
		Role:         role,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestUsersCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	u := newTestUser("alice", domain.RoleUser)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, byID.Username)
	require.Equal(t, u.Role, byID.Role)

	byName, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)
}

func TestUsersDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.Users().CreateUser(ctx, newTestUser("bob", domain.RoleUser)))

	err := s.Users().CreateUser(ctx, newTestUser("bob", domain.RoleUser))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Users().GetUserByUsername(t.Context(), "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	first := newTestUser("first", domain.RoleUser)
	second := newTestUser("second", domain.RoleAdmin)
	require.NoError(t, s.Users().CreateUser(ctx, first))
	require.NoError(t, s.Users().CreateUser(ctx, second))

	users, err := s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "second", users[0].Username)
	require.Equal(t, "first", users[1].Username)
}

func TestPostsCreateAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	author := newTestUser("carol", domain.RoleUser)
	require.NoError(t, s.Users().CreateUser(ctx, author))

	older := domain.Post{
		ID:        idx.New().String(),
		AuthorID:  author.ID,
		Title:     "hello",
		Content:   "first post",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	newer := domain.Post{
		ID:        idx.New().String(),
		AuthorID:  author.ID,
		Title:     "again",
		Content:   "second post",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Posts().CreatePost(ctx, older))
	require.NoError(t, s.Posts().CreatePost(ctx, newer))

	posts, err := s.Posts().ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// Newest first, author username resolved via the join.
	require.Equal(t, "again", posts[0].Title)
	require.Equal(t, "carol", posts[0].Author)
	require.Equal(t, "hello", posts[1].Title)

	got, err := s.Posts().GetPostByID(ctx, older.ID)
	require.NoError(t, err)
	require.Equal(t, "first post", got.Content)
	require.Equal(t, "carol", got.Author)
}

func TestDeleteUserCascadesPosts(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	author := newTestUser("dave", domain.RoleUser)
	require.NoError(t, s.Users().CreateUser(ctx, author))

	p := domain.Post{
		ID:        idx.New().String(),
		AuthorID:  author.ID,
		Title:     "doomed",
		Content:   "goes with the account",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Posts().CreatePost(ctx, p))

	require.NoError(t, s.Users().DeleteUser(ctx, author.ID))

	_, err := s.Users().GetUserByID(ctx, author.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	posts, err := s.Posts().ListPosts(ctx)
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	boom := domain.User{} // zero user violates NOT NULL, forcing an error after the first insert
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, newTestUser("eve", domain.RoleUser)); err != nil {
			return err
		}
		return tx.Users().CreateUser(ctx, boom)
	})
	require.Error(t, err)

	// The first insert must not survive the rollback.
	_, getErr := s.Users().GetUserByUsername(ctx, "eve")
	require.ErrorIs(t, getErr, store.ErrNotFound)
}

func TestWithTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, newTestUser("frank", domain.RoleUser))
	})
	require.NoError(t, err)

	_, getErr := s.Users().GetUserByUsername(ctx, "frank")
	require.NoError(t, getErr)
}
