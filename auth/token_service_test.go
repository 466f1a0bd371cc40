package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-vote/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-secret-key")

type fixedClock struct {
	t time.Time
}

func newClock() *fixedClock {
	return &fixedClock{t: time.Now().Truncate(time.Second)}
}

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokenService(clock *fixedClock, opts ...auth.TokenServiceOption) *auth.TokenServiceImpl {
	opts = append(opts, auth.WithTokenClock(clock.Now))
	return auth.NewTokenService(testSigningKey, "HS256", time.Hour, "", opts...)
}

func TestTokenService_RoundTrip(t *testing.T) {
	clock := newClock()
	ts := newTestTokenService(clock)
	subject := uuid.NewString()

	token, err := ts.Issue(subject, time.Minute)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	got, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, subject, got)

	claims, err := ts.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.UserID())
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, clock.t.Add(time.Minute), claims.ExpiresAt.Time, time.Second)
	assert.WithinDuration(t, clock.t, claims.IssuedAt.Time, time.Second)

	payload := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, payload)
	require.NoError(t, err)
	assert.Equal(t, subject, payload["sub"])
	assert.NotContains(t, payload, "uid")
}

func TestTokenService_Expiry(t *testing.T) {
	clock := newClock()
	ts := newTestTokenService(clock)

	token, err := ts.Issue(uuid.NewString(), time.Minute)
	require.NoError(t, err)

	clock.Advance(59 * time.Second)
	_, err = ts.Validate(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenService_Generate(t *testing.T) {
	clock := newClock()
	ts := newTestTokenService(clock)
	user := &auth.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}

	token, err := ts.Generate(user.Identity())
	require.NoError(t, err)

	claims, err := ts.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID())
	assert.WithinDuration(t, clock.t.Add(time.Hour), claims.ExpiresAt.Time, time.Second)

	_, err = ts.Generate(nil)
	assert.Error(t, err)
}

func TestTokenService_Rejects(t *testing.T) {
	clock := newClock()
	ts := newTestTokenService(clock)
	subject := uuid.NewString()

	valid, err := ts.Issue(subject, time.Minute)
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	exp := jwt.NewNumericDate(clock.t.Add(time.Minute))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "tampered signature", token: valid[:len(valid)-2] + "xx"},
		{name: "tampered payload", token: func() string {
			parts := strings.Split(valid, ".")
			other := strings.Split(sign(jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: uuid.NewString(), ExpiresAt: exp}), ".")
			return parts[0] + "." + other[1] + "." + parts[2]
		}()},
		{name: "wrong key", token: sign(jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: subject, ExpiresAt: exp})},
		{name: "foreign algorithm", token: sign(jwt.SigningMethodHS512, testSigningKey, jwt.RegisteredClaims{Subject: subject, ExpiresAt: exp})},
		{name: "none algorithm", token: sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{Subject: subject, ExpiresAt: exp})},
		{name: "missing expiry", token: sign(jwt.SigningMethodHS256, testSigningKey, jwt.RegisteredClaims{Subject: subject})},
		{name: "missing subject", token: sign(jwt.SigningMethodHS256, testSigningKey, jwt.RegisteredClaims{ExpiresAt: exp})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.Validate(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestTokenService_Issuer(t *testing.T) {
	clock := newClock()
	issuing := auth.NewTokenService(testSigningKey, "HS256", time.Hour, "vote", auth.WithTokenClock(clock.Now))
	other := auth.NewTokenService(testSigningKey, "HS256", time.Hour, "someone-else", auth.WithTokenClock(clock.Now))

	token, err := issuing.Issue(uuid.NewString(), time.Minute)
	require.NoError(t, err)

	_, err = issuing.Validate(token)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewTokenService_Defaults(t *testing.T) {
	clock := newClock()
	ts := auth.NewTokenService(testSigningKey, "RS256", 0, "", auth.WithTokenClock(clock.Now))
	assert.Equal(t, auth.DefaultTokenExpiration, ts.TokenExpiration())

	token, err := ts.Issue(uuid.NewString(), time.Minute)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwt.RegisteredClaims{})
	require.NoError(t, err)
	assert.Equal(t, "HS256", parsed.Method.Alg())
}

type staticConfig struct {
	key     string
	alg     string
	minutes int
	issuer  string
}

func (c staticConfig) GetSigningKey() string    { return c.key }
func (c staticConfig) GetSigningMethod() string { return c.alg }
func (c staticConfig) GetTokenExpiration() int  { return c.minutes }
func (c staticConfig) GetIssuer() string        { return c.issuer }

func TestNewTokenServiceFromConfig(t *testing.T) {
	ts := auth.NewTokenServiceFromConfig(staticConfig{key: "k", alg: "HS384", minutes: 15})
	assert.Equal(t, 15*time.Minute, ts.TokenExpiration())

	token, err := ts.Issue(uuid.NewString(), time.Minute)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwt.RegisteredClaims{})
	require.NoError(t, err)
	assert.Equal(t, "HS384", parsed.Method.Alg())
}
