package security

import "crypto/subtle"

// Authorization is the typed outcome of an admin key check, handled by
// callers as a value rather than a thrown error.
type Authorization int

const (
	Unauthorized Authorization = iota
	Authorized
)

func (a Authorization) OK() bool { return a == Authorized }

// AdminGuard checks a submitted shared secret against the server-held admin
// key. There is one role; a matching key grants everything.
type AdminGuard struct {
	key []byte
}

func NewAdminGuard(key string) *AdminGuard {
	return &AdminGuard{key: []byte(key)}
}

// Authorize compares in constant time. An empty server key authorizes
// nobody.
func (g *AdminGuard) Authorize(candidate string) Authorization {
	if len(g.key) == 0 {
		return Unauthorized
	}
	if subtle.ConstantTimeCompare(g.key, []byte(candidate)) == 1 {
		return Authorized
	}
	return Unauthorized
}
