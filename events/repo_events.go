package events

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-vote/persistence"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the event store. Every method has a Tx variant so the rule
// engine can run a whole operation inside one transaction. Lookups that match
// nothing return an error persistence.IsRecordNotFound recognizes.
type Repository interface {
	persistence.TransactionManager

	CreateEventTx(ctx context.Context, tx bun.IDB, event *Event) (*Event, error)
	CreateChoiceTx(ctx context.Context, tx bun.IDB, choice *Choice) (*Choice, error)
	CreateVoteTx(ctx context.Context, tx bun.IDB, vote *Vote) (*Vote, error)

	GetEventTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Event, error)
	ListChoicesTx(ctx context.Context, tx bun.IDB, eventID uuid.UUID) ([]*Choice, error)
	FindChoiceTx(ctx context.Context, tx bun.IDB, eventID uuid.UUID, text string) (*Choice, error)
	FindVoteTx(ctx context.Context, tx bun.IDB, userID, eventID uuid.UUID) (*Vote, error)
}

type repo struct {
	*persistence.Manager
	events  repository.Repository[*Event]
	choices repository.Repository[*Choice]
	votes   repository.Repository[*Vote]
}

var _ Repository = (*repo)(nil)

func NewRepository(db *bun.DB) Repository {
	return &repo{
		Manager: persistence.NewManager(db),
		events:  NewEventsRepository(db),
		choices: NewChoicesRepository(db),
		votes:   NewVotesRepository(db),
	}
}

func NewEventsRepository(db bun.IDB) repository.Repository[*Event] {
	return repository.NewRepository[*Event](db, repository.ModelHandlers[*Event]{
		NewRecord: func() *Event { return &Event{} },
		GetID: func(record *Event) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Event, id uuid.UUID) {
			if record != nil {
				record.ID = id
			}
		},
		GetIdentifier: func() string {
			return "title"
		},
	})
}

func NewChoicesRepository(db bun.IDB) repository.Repository[*Choice] {
	return repository.NewRepository[*Choice](db, repository.ModelHandlers[*Choice]{
		NewRecord: func() *Choice { return &Choice{} },
		GetID: func(record *Choice) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Choice, id uuid.UUID) {
			if record != nil {
				record.ID = id
			}
		},
		GetIdentifier: func() string {
			return "choice"
		},
	})
}

func NewVotesRepository(db bun.IDB) repository.Repository[*Vote] {
	return repository.NewRepository[*Vote](db, repository.ModelHandlers[*Vote]{
		NewRecord: func() *Vote { return &Vote{} },
		GetID: func(record *Vote) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Vote, id uuid.UUID) {
			if record != nil {
				record.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})
}

func (r *repo) CreateEventTx(ctx context.Context, tx bun.IDB, event *Event) (*Event, error) {
	return r.events.CreateTx(ctx, tx, event)
}

func (r *repo) CreateChoiceTx(ctx context.Context, tx bun.IDB, choice *Choice) (*Choice, error) {
	return r.choices.CreateTx(ctx, tx, choice)
}

func (r *repo) CreateVoteTx(ctx context.Context, tx bun.IDB, vote *Vote) (*Vote, error) {
	if vote.CreatedAt == nil {
		now := time.Now().UTC()
		vote.CreatedAt = &now
	}
	return r.votes.CreateTx(ctx, tx, vote)
}

func (r *repo) GetEventTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Event, error) {
	return r.events.GetTx(ctx, tx, whereUUID("id", id))
}

func (r *repo) ListChoicesTx(ctx context.Context, tx bun.IDB, eventID uuid.UUID) ([]*Choice, error) {
	records, _, err := r.choices.ListTx(ctx, tx,
		whereUUID("event_id", eventID),
		repository.Paginate(MaxChoices, 0),
		byPosition,
	)
	if err != nil && !persistence.IsRecordNotFound(err) {
		return nil, err
	}
	return records, nil
}

func (r *repo) FindChoiceTx(ctx context.Context, tx bun.IDB, eventID uuid.UUID, text string) (*Choice, error) {
	return r.choices.GetTx(ctx, tx,
		whereUUID("event_id", eventID),
		repository.SelectBy("choice", "=", text),
		byPosition,
	)
}

func (r *repo) FindVoteTx(ctx context.Context, tx bun.IDB, userID, eventID uuid.UUID) (*Vote, error) {
	return r.votes.GetTx(ctx, tx,
		whereUUID("user_id", userID),
		whereUUID("event_id", eventID),
	)
}

// whereUUID binds the id as a typed value so postgres compares uuid to uuid
func whereUUID(column string, id uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), id)
	}
}

func byPosition(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.position ASC")
}
