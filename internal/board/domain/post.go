package domain

import "time"

// Post is a board entry. Author is denormalized from the users table on
// read so list pages don't need a second query.
type Post struct {
	ID        string
	AuthorID  string
	Author    string // username of the author
	Title     string
	Content   string
	CreatedAt time.Time
}
