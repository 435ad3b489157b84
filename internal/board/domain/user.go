package domain

import "time"

// Single-tag roles. There is no role hierarchy; ADMIN is checked literally
// where it matters.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a registered account. Username is unique and immutable after
// creation; the only mutations are administrative deletion and (eventually)
// password change.
type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2id PHC encoded, never plaintext
	Role         string
	CreatedAt    time.Time
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
