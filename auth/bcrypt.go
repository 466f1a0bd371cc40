package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes passwords with bcrypt at a fixed cost
type PasswordHasher struct {
	cost int
}

var _ PasswordAuthenticator = PasswordHasher{}

// NewPasswordHasher returns a hasher using cost, or the build default
// when cost is outside the range bcrypt accepts
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = passwordHashCost()
	}
	return PasswordHasher{cost: cost}
}

// HashPassword will generate a salted password hash
func (h PasswordHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	cost := h.cost
	if cost == 0 {
		cost = passwordHashCost()
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(b), err
}

// VerifyPassword reports whether password matches hash.
// Malformed hashes never match.
func (h PasswordHasher) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
