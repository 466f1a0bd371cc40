package auth

import "github.com/golang-jwt/jwt/v5"

// JWTClaims are the claims signed into every access token.
// The user id travels in sub.
type JWTClaims struct {
	jwt.RegisteredClaims
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	return c.RegisteredClaims.Subject
}
