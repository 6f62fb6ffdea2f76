package ports

import "time"

// AuthClaims is the identity carried by an API bearer token.
type AuthClaims struct {
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenSigner interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(raw string) (AuthClaims, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// DownloadTokenGenerator mints opaque, unguessable download tokens.
type DownloadTokenGenerator interface {
	NewToken() (string, error)
}
