package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-vote/persistence"
)

// Auther logs users in with their password and hands out access tokens
type Auther struct {
	provider     UserFinder
	hasher       PasswordAuthenticator
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(provider UserFinder, hasher PasswordAuthenticator, tokenService TokenService) *Auther {
	return &Auther{
		provider:     provider,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       defaultLogger(nil),
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = defaultLogger(logger)
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the password of the user matching identifier, which may be
// a username or an email, and returns a signed access token.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.provider.GetByIdentifier(ctx, identifier)
	if err != nil {
		if persistence.IsRecordNotFound(err) {
			s.logger.Info("login unknown identifier")
			return "", ErrInvalidCredentials
		}
		s.logger.Error("login find user", "error", err)
		return "", ErrPersistence
	}

	if !s.hasher.VerifyPassword(password, user.PasswordHash) {
		s.logger.Info("login password mismatch", "user_id", user.ID.String())
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(user.Identity())
	if err != nil {
		s.logger.Error("login generate token", "error", err)
		return "", ErrPersistence
	}

	s.logger.Info("login success", "user_id", user.ID.String())

	return token, nil
}
