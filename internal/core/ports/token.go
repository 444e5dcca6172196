package ports

import "github.com/creatorhub/marketplace/internal/core/domain"

// TokenIssuer mints session tokens at login.
type TokenIssuer interface {
	Issue(email string, role domain.Role) (string, error)
}

// TokenVerifier validates a presented bearer token.
type TokenVerifier interface {
	// Verify returns domain.ErrTokenMissing, domain.ErrTokenInvalid or
	// domain.ErrTokenExpired on failure.
	Verify(token string) (*domain.Claims, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash; a malformed hash is a mismatch.
	Verify(password, hash string) bool
}
