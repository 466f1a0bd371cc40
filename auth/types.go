package auth

import (
	"context"

	"github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

// Logger is satisfied by glog.Logger
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	// GetTokenExpiration returns the token TTL in minutes
	GetTokenExpiration() int
	GetIssuer() string
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// PasswordAuthenticator hashes and verifies passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
}

// TokenValidator decodes a token into its subject id
type TokenValidator interface {
	Validate(tokenString string) (string, error)
}

// UserFinder is the read side of the credential store used by login and the gate
type UserFinder interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

func defaultLogger(logger Logger) Logger {
	if logger == nil {
		return glog.NewLogger(glog.WithName("voteapp")).GetLogger("auth")
	}
	return logger
}

type authIdentity struct {
	id       string
	username string
	email    string
}

func (a authIdentity) ID() string       { return a.id }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Email() string    { return a.email }
