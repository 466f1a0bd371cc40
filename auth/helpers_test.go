package auth_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-vote/auth"
	"github.com/goliatone/go-vote/persistence"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db       *bun.DB
	users    auth.Users
	hasher   auth.PasswordHasher
	register *auth.RegisterUserHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	db, err := persistence.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, persistence.Migrate(ctx, db, auth.Tables()...))

	users := auth.NewUsersRepository(db)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	return &fixture{
		db:       db,
		users:    users,
		hasher:   hasher,
		register: auth.NewRegisterUserHandler(users, persistence.NewManager(db), hasher, nil),
	}
}

func (f *fixture) mustRegister(t *testing.T, username, email, password string) *auth.User {
	t.Helper()

	user, err := f.register.Execute(context.Background(), auth.RegisterUserMessage{
		Email:    email,
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	return user
}
