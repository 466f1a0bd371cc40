package auth

import (
	"context"

	"github.com/goliatone/go-vote/persistence"
	"github.com/google/uuid"
)

// Gate resolves inbound tokens into persisted users
type Gate struct {
	tokens TokenValidator
	users  UserFinder
	logger Logger
}

func NewGate(tokens TokenValidator, users UserFinder, logger Logger) *Gate {
	return &Gate{
		tokens: tokens,
		users:  users,
		logger: defaultLogger(logger),
	}
}

// Resolve returns the user the token was issued to
func (g *Gate) Resolve(ctx context.Context, token string) (*User, error) {
	subject, err := g.tokens.Validate(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		g.logger.Warn("token subject is not a user id", "subject", subject)
		return nil, ErrUnauthenticated
	}

	user, err := g.users.GetByID(ctx, id)
	if err != nil {
		// the user may have been removed after the token was issued
		if persistence.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		g.logger.Error("gate find user", "error", err, "user_id", id.String())
		return nil, ErrPersistence
	}

	return user, nil
}
