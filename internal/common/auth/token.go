// Package auth implements the shared-secret credential check used by
// secured API operations.
package auth

import "crypto/subtle"

// HeaderName is the request header carrying the API token.
const HeaderName = "X-API-Token"

// Verifier decides whether a presented credential authorizes secured
// operations.
type Verifier interface {
	Verify(token string) bool
}

// StaticToken compares the presented token for equality with a shared
// secret. An empty secret fails closed.
type StaticToken struct {
	secret string
}

func NewStaticToken(secret string) *StaticToken {
	return &StaticToken{secret: secret}
}

func (s *StaticToken) Verify(token string) bool {
	if s.secret == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.secret), []byte(token)) == 1
}
