package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultSigningMethod is used when the configured algorithm is empty
const DefaultSigningMethod = "HS256"

// DefaultTokenExpiration is the access token TTL used when none is configured
const DefaultTokenExpiration = 60 * time.Minute

// TokenService issues and validates access tokens
type TokenService interface {
	TokenValidator
	Issue(subject string, ttl time.Duration) (string, error)
	Generate(identity Identity) (string, error)
	ParseClaims(tokenString string) (*JWTClaims, error)
	TokenExpiration() time.Duration
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	signingMethod   jwt.SigningMethod
	tokenExpiration time.Duration
	issuer          string
	logger          Logger
	now             func() time.Time
}

// TokenServiceOption customizes a TokenServiceImpl
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenClock overrides the clock used for issuance and expiry checks
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithTokenLogger sets the logger
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.logger = defaultLogger(logger)
	}
}

// NewTokenService creates a new TokenService instance.
// Only HMAC algorithms are accepted, anything else falls back to HS256.
func NewTokenService(signingKey []byte, signingMethod string, tokenExpiration time.Duration, issuer string, opts ...TokenServiceOption) *TokenServiceImpl {
	ts := &TokenServiceImpl{
		signingKey:      signingKey,
		signingMethod:   jwt.SigningMethodHS256,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		logger:          defaultLogger(nil),
		now:             time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	if signingMethod == "" {
		signingMethod = DefaultSigningMethod
	}

	if method, ok := jwt.GetSigningMethod(signingMethod).(*jwt.SigningMethodHMAC); ok {
		ts.signingMethod = method
	} else {
		ts.logger.Error("unsupported token signing method, using default", "alg", signingMethod, "default", DefaultSigningMethod)
	}

	if ts.tokenExpiration <= 0 {
		ts.tokenExpiration = DefaultTokenExpiration
	}

	return ts
}

// NewTokenServiceFromConfig builds a TokenService from the process configuration
func NewTokenServiceFromConfig(cfg Config, opts ...TokenServiceOption) *TokenServiceImpl {
	return NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetSigningMethod(),
		time.Duration(cfg.GetTokenExpiration())*time.Minute,
		cfg.GetIssuer(),
		opts...,
	)
}

// TokenExpiration returns the configured TTL
func (ts *TokenServiceImpl) TokenExpiration() time.Duration {
	return ts.tokenExpiration
}

// Generate issues a token for identity using the configured TTL
func (ts *TokenServiceImpl) Generate(identity Identity) (string, error) {
	if identity == nil || identity.ID() == "" {
		return "", goerrors.New("identity is required", goerrors.CategoryBadInput)
	}
	return ts.Issue(identity.ID(), ts.tokenExpiration)
}

// Issue signs a token for subject that expires ttl from now
func (ts *TokenServiceImpl) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", goerrors.New("token subject is required", goerrors.CategoryBadInput)
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(ts.signingMethod, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Validate verifies tokenString and returns its subject
func (ts *TokenServiceImpl) Validate(tokenString string) (string, error) {
	claims, err := ts.ParseClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID(), nil
}

// ParseClaims verifies signature, algorithm and expiry and returns the claims
func (ts *TokenServiceImpl) ParseClaims(tokenString string) (*JWTClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{ts.signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	}

	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("token validation failed", "error", err, "expired", goerrors.Is(err, jwt.ErrTokenExpired))
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.UserID() == "" {
		ts.logger.Debug("token validation could not decode claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}
