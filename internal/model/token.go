package model

// TokenClaims is what a session token asserts about its bearer.
type TokenClaims struct {
	IdentityID string
	Role       Role
}

// TokenManager issues and validates session tokens.
type TokenManager interface {
	GenerateAccessToken(identity Identity) (string, error)
	ParseAccessToken(token string) (TokenClaims, error)
}
