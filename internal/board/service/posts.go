package service

import (
	"context"
	"strings"
	"time"

	"github.com/tabberone/corkboard/internal/board/domain"
	"github.com/tabberone/corkboard/internal/board/store"
	"github.com/tabberone/corkboard/pkg/idx"
)

type PostService struct {
	Store store.Store
}

// CreatePost writes a post for the authenticated author. The author is
// identified by username because that is what the bound identity carries.
func (s *PostService) CreatePost(ctx context.Context, authorUsername, title, content string) (domain.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return domain.Post{}, ErrInvalidInput
	}

	author, err := s.Store.Users().GetUserByUsername(ctx, authorUsername)
	if err != nil {
		return domain.Post{}, err
	}

	p := domain.Post{
		ID:        idx.New().String(),
		AuthorID:  author.ID,
		Author:    author.Username,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Posts().CreatePost(ctx, p); err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

// GetPost returns one post with the author's username resolved.
func (s *PostService) GetPost(ctx context.Context, id string) (domain.Post, error) {
	return s.Store.Posts().GetPostByID(ctx, id)
}

// ListPosts returns all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx)
}
