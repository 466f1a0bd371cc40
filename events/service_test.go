package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-vote/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent_ChoiceCount(t *testing.T) {
	tests := []struct {
		name    string
		choices []string
		wantErr error
	}{
		{name: "none", choices: nil, wantErr: events.ErrInvalidChoiceCount},
		{name: "one", choices: []string{"A"}, wantErr: events.ErrInvalidChoiceCount},
		{name: "two", choices: []string{"A", "B"}},
		{name: "four", choices: []string{"A", "B", "C", "D"}},
		{name: "five", choices: []string{"A", "B", "C", "D", "E"}, wantErr: events.ErrInvalidChoiceCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			creator := newUser(t, db, "creator")
			svc := events.NewService(events.NewRepository(db))

			event, err := svc.CreateEvent(context.Background(), creator, events.CreateEventInput{
				Title:   "Poll",
				Choices: tt.choices,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, event)
				assert.Zero(t, countRows(t, db, (*events.Event)(nil)))
				assert.Zero(t, countRows(t, db, (*events.Choice)(nil)))
				return
			}

			require.NoError(t, err)
			require.Len(t, event.Choices, len(tt.choices))
			for i, ch := range event.Choices {
				assert.NotZero(t, ch.ID)
				assert.Equal(t, event.ID, ch.EventID)
				assert.Equal(t, tt.choices[i], ch.Choice)
			}
			assert.Equal(t, 1, countRows(t, db, (*events.Event)(nil)))
			assert.Equal(t, len(tt.choices), countRows(t, db, (*events.Choice)(nil)))
		})
	}
}

func TestCreateEvent_IsAtomic(t *testing.T) {
	db := newTestDB(t)
	creator := newUser(t, db, "creator")

	repo := &faultyRepository{Repository: events.NewRepository(db), failChoiceAt: 2}
	svc := events.NewService(repo)

	event, err := svc.CreateEvent(context.Background(), creator, events.CreateEventInput{
		Title:   "Lunch",
		Choices: []string{"Pizza", "Salad", "Soup"},
	})
	assert.ErrorIs(t, err, events.ErrPersistence)
	assert.Nil(t, event)

	assert.Zero(t, countRows(t, db, (*events.Event)(nil)))
	assert.Zero(t, countRows(t, db, (*events.Choice)(nil)))
}

func TestCreateEvent_UnknownCreator(t *testing.T) {
	db := newTestDB(t)
	svc := events.NewService(events.NewRepository(db))

	_, err := svc.CreateEvent(context.Background(), uuid.New(), events.CreateEventInput{
		Title:   "Orphan",
		Choices: []string{"A", "B"},
	})
	assert.ErrorIs(t, err, events.ErrPersistence)
	assert.Zero(t, countRows(t, db, (*events.Event)(nil)))
}

func TestCastVote_LunchScenario(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")
	svc := events.NewService(events.NewRepository(db))
	ctx := context.Background()

	lunch, err := svc.CreateEvent(ctx, alice, events.CreateEventInput{
		Title:   "Lunch",
		Choices: []string{"Pizza", "Salad"},
	})
	require.NoError(t, err)

	vote, err := svc.CastVote(ctx, alice, lunch.ID, "Pizza")
	require.NoError(t, err)
	assert.Equal(t, alice, vote.UserID)
	assert.Equal(t, lunch.ID, vote.EventID)
	assert.Equal(t, lunch.Choices[0].ID, vote.ChoiceID)
	assert.NotNil(t, vote.CreatedAt)

	_, err = svc.CastVote(ctx, alice, lunch.ID, "Salad")
	assert.ErrorIs(t, err, events.ErrAlreadyVoted)

	_, err = svc.CastVote(ctx, bob, lunch.ID, "Burrito")
	assert.ErrorIs(t, err, events.ErrChoiceNotFound)

	assert.Equal(t, 1, countRows(t, db, (*events.Vote)(nil)))
}

func TestCastVote_Rules(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	svc := events.NewService(events.NewRepository(db), events.WithClock(func() time.Time { return now }))

	past := now.Add(-time.Hour)
	closed, err := svc.CreateEvent(ctx, alice, events.CreateEventInput{
		Title:     "Closed",
		ExpiresAt: &past,
		Choices:   []string{"Yes", "No"},
	})
	require.NoError(t, err)

	open, err := svc.CreateEvent(ctx, alice, events.CreateEventInput{
		Title:   "Open",
		Choices: []string{"Yes", "No"},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		user    uuid.UUID
		eventID uuid.UUID
		choice  string
		wantErr error
	}{
		{name: "unknown event", user: bob, eventID: uuid.New(), choice: "Yes", wantErr: events.ErrEventNotFound},
		{name: "closed before choice check", user: bob, eventID: closed.ID, choice: "Maybe", wantErr: events.ErrVotingClosed},
		{name: "closed", user: bob, eventID: closed.ID, choice: "Yes", wantErr: events.ErrVotingClosed},
		{name: "choice is case sensitive", user: bob, eventID: open.ID, choice: "yes", wantErr: events.ErrChoiceNotFound},
		{name: "choice from another event text", user: bob, eventID: open.ID, choice: "Maybe", wantErr: events.ErrChoiceNotFound},
		{name: "no expiry is always open", user: bob, eventID: open.ID, choice: "No"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CastVote(ctx, tt.user, tt.eventID, tt.choice)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCastVote_ExpiryBoundary(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")
	ctx := context.Background()

	expiresAt := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	clock := expiresAt

	svc := events.NewService(events.NewRepository(db), events.WithClock(func() time.Time { return clock }))

	event, err := svc.CreateEvent(ctx, alice, events.CreateEventInput{
		Title:     "Deadline",
		ExpiresAt: &expiresAt,
		Choices:   []string{"A", "B"},
	})
	require.NoError(t, err)

	_, err = svc.CastVote(ctx, alice, event.ID, "A")
	require.NoError(t, err, "a vote at exactly the expiry instant is accepted")

	clock = expiresAt.Add(time.Microsecond)
	_, err = svc.CastVote(ctx, bob, event.ID, "A")
	assert.ErrorIs(t, err, events.ErrVotingClosed)
}

func TestEvent_IsClosedAt(t *testing.T) {
	at := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&events.Event{}).IsClosedAt(at))
	assert.False(t, (&events.Event{ExpiresAt: &at}).IsClosedAt(at))
	assert.False(t, (&events.Event{ExpiresAt: &at}).IsClosedAt(at.Add(-time.Nanosecond)))
	assert.True(t, (&events.Event{ExpiresAt: &at}).IsClosedAt(at.Add(time.Nanosecond)))
}

func TestCastVote_ConcurrentVotesKeepOne(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	svc := events.NewService(events.NewRepository(db))
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, alice, events.CreateEventInput{
		Title:   "Race",
		Choices: []string{"A", "B"},
	})
	require.NoError(t, err)

	const workers = 10
	results := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			choice := "A"
			if i%2 == 1 {
				choice = "B"
			}
			_, results[i] = svc.CastVote(ctx, alice, event.ID, choice)
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, events.ErrAlreadyVoted):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dup)
	assert.Equal(t, 1, countRows(t, db, (*events.Vote)(nil)))
}

func TestCastVote_ConstraintViolationIsAlreadyVoted(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	ctx := context.Background()

	repo := &faultyRepository{Repository: events.NewRepository(db), skipVoteLookup: true}
	svc := events.NewService(repo)

	event, err := svc.CreateEvent(ctx, alice, events.CreateEventInput{
		Title:   "Constraint",
		Choices: []string{"A", "B"},
	})
	require.NoError(t, err)

	_, err = svc.CastVote(ctx, alice, event.ID, "A")
	require.NoError(t, err)

	_, err = svc.CastVote(ctx, alice, event.ID, "B")
	assert.ErrorIs(t, err, events.ErrAlreadyVoted)
	assert.Equal(t, 1, countRows(t, db, (*events.Vote)(nil)))
}

func TestCastVote_StorageFailureIsPersistenceError(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	ctx := context.Background()

	repo := &faultyRepository{Repository: events.NewRepository(db), failVoteInsert: errInjected}
	svc := events.NewService(repo)

	event, err := svc.CreateEvent(ctx, alice, events.CreateEventInput{
		Title:   "Broken",
		Choices: []string{"A", "B"},
	})
	require.NoError(t, err)

	_, err = svc.CastVote(ctx, alice, event.ID, "A")
	assert.ErrorIs(t, err, events.ErrPersistence)
	assert.NotErrorIs(t, err, errInjected)
	assert.Zero(t, countRows(t, db, (*events.Vote)(nil)))
}

func TestGetEvent(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	svc := events.NewService(events.NewRepository(db))
	ctx := context.Background()

	desc := "where to eat"
	created, err := svc.CreateEvent(ctx, alice, events.CreateEventInput{
		Title:       "Lunch",
		Description: &desc,
		Choices:     []string{"Pizza", "Salad", "Soup"},
	})
	require.NoError(t, err)

	got, err := svc.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	assert.Nil(t, got.ExpiresAt)
	assert.Equal(t, alice, got.CreatorID)
	require.Len(t, got.Choices, 3)
	assert.Equal(t, []string{"Pizza", "Salad", "Soup"}, []string{got.Choices[0].Choice, got.Choices[1].Choice, got.Choices[2].Choice})

	_, err = svc.GetEvent(ctx, uuid.New())
	assert.ErrorIs(t, err, events.ErrEventNotFound)
}
