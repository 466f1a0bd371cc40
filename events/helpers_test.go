package events_test

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-vote/auth"
	"github.com/goliatone/go-vote/events"
	"github.com/goliatone/go-vote/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var errInjected = errors.New("injected fault")

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := persistence.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tables := append(auth.Tables(), events.Tables()...)
	require.NoError(t, persistence.Migrate(ctx, db, tables...))

	return db
}

func newUser(t *testing.T, db *bun.DB, username string) uuid.UUID {
	t.Helper()

	user, err := auth.NewUsersRepository(db).Register(context.Background(), &auth.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "not-a-real-hash",
	})
	require.NoError(t, err)
	return user.ID
}

func countRows(t *testing.T, db *bun.DB, model any) int {
	t.Helper()

	n, err := db.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}

// faultyRepository wraps a Repository and fails selected calls
type faultyRepository struct {
	events.Repository

	failChoiceAt   int32
	choiceCalls    atomic.Int32
	failVoteInsert error
	skipVoteLookup bool
}

func (r *faultyRepository) CreateChoiceTx(ctx context.Context, tx bun.IDB, choice *events.Choice) (*events.Choice, error) {
	if r.choiceCalls.Add(1) == r.failChoiceAt {
		return nil, errInjected
	}
	return r.Repository.CreateChoiceTx(ctx, tx, choice)
}

func (r *faultyRepository) CreateVoteTx(ctx context.Context, tx bun.IDB, vote *events.Vote) (*events.Vote, error) {
	if r.failVoteInsert != nil {
		return nil, r.failVoteInsert
	}
	return r.Repository.CreateVoteTx(ctx, tx, vote)
}

// FindVoteTx can pretend no vote exists so the insert hits the
// uniqueness constraint.
func (r *faultyRepository) FindVoteTx(ctx context.Context, tx bun.IDB, userID, eventID uuid.UUID) (*events.Vote, error) {
	if r.skipVoteLookup {
		return nil, sql.ErrNoRows
	}
	return r.Repository.FindVoteTx(ctx, tx, userID, eventID)
}
