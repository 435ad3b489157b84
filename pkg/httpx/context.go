package httpx

import "context"

// Identity is the request-scoped binding of a verified user. It exists only
// for the lifetime of one request; nothing here is ever persisted or shared
// across requests.
type Identity struct {
	Username string
	Role     string
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// WithIdentity binds an authenticated identity into the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the bound identity, if any. The second return
// is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}
