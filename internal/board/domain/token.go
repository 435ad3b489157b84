package domain

// TokenPair is what a successful login yields: a short-lived signed access
// token and a long-lived signed refresh token. Only the refresh token has a
// server-side record (by fingerprint, in the token store).
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
