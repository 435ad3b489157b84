// Package tokenstore is the server-side record of the single currently
// valid refresh token per user. It is deliberately a plain key-value
// contract: any durable TTL-capable store satisfies it.
package tokenstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no live record exists for the user,
	// including records that have quietly aged out.
	ErrNotFound = errors.New("tokenstore: not found")

	// ErrUnavailable reports a backing store call failure. Callers in the
	// refresh path treat it exactly like a rejection, never as a fatal
	// error for the request.
	ErrUnavailable = errors.New("tokenstore: unavailable")
)

// Store maps a username to the fingerprint of that user's current refresh
// token. Implementations must keep at most one live record per username
// and make Put a per-key atomic overwrite with last-writer-wins semantics:
// two concurrent logins for the same user may not interleave a partial
// write, and whichever Put lands last defines the one valid token.
type Store interface {
	// Put overwrites any existing record for username. The prior value
	// becomes unrecoverable; later presentations of it must be rejected.
	Put(ctx context.Context, username, value string, ttl time.Duration) error

	// Get returns the stored value or ErrNotFound when absent or expired.
	Get(ctx context.Context, username string) (string, error)

	// Delete removes the record. Used on logout and account deletion.
	Delete(ctx context.Context, username string) error
}
