package sqlite

import (
	"context"

	"github.com/tabberone/corkboard/internal/board/domain"
)

type postsRepo struct {
	q queryer
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, title, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.AuthorID, p.Title, p.Content, p.CreatedAt)
	return mapConstraint(err)
}

func (r *postsRepo) GetPostByID(ctx context.Context, id string) (domain.Post, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT p.id, p.author_id, u.username, p.title, p.content, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = ?`, id)

	var p domain.Post
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Title, &p.Content, &p.CreatedAt); err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) ListPosts(ctx context.Context) ([]domain.Post, error) {
	// ULIDs sort lexicographically by creation time, so id DESC is
	// newest first.
	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, p.author_id, u.username, p.title, p.content, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Author, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
