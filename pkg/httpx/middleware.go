package httpx

import "net/http"

// Middleware wraps an http.Handler with extra behavior. The contract for
// every middleware in this service is "pass through or attach context":
// a middleware may short-circuit with its own response, but it must never
// panic or error past its own boundary.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h. The first middleware listed is the
// outermost, i.e. it sees the request first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
