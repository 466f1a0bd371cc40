package events

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-vote/persistence"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// VotedMessage is returned to callers after a successful vote
const VotedMessage = "Successfully voted event"

// Logger is satisfied by glog.Logger
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// CreateEventInput is the payload of CreateEvent
type CreateEventInput struct {
	Title       string
	Description *string
	ExpiresAt   *time.Time
	Choices     []string
}

// Service is the vote rule engine
type Service struct {
	repo   Repository
	logger Logger
	now    func() time.Time
}

type ServiceOption func(*Service)

// WithClock overrides the clock used for the expiry check
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		logger: glog.NewLogger(glog.WithName("voteapp")).GetLogger("events"),
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// CreateEvent stores an event and its choices atomically
func (s *Service) CreateEvent(ctx context.Context, creatorID uuid.UUID, in CreateEventInput) (*Event, error) {
	if len(in.Choices) < MinChoices || len(in.Choices) > MaxChoices {
		return nil, ErrInvalidChoiceCount
	}

	event := &Event{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		CreatorID:   creatorID,
	}

	if in.ExpiresAt != nil {
		expiresAt := in.ExpiresAt.UTC()
		event.ExpiresAt = &expiresAt
	}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.CreateEventTx(ctx, tx, event); err != nil {
			return err
		}

		choices := make([]*Choice, 0, len(in.Choices))
		for i, text := range in.Choices {
			choice, err := s.repo.CreateChoiceTx(ctx, tx, &Choice{
				Choice:   text,
				Position: i,
				EventID:  event.ID,
			})
			if err != nil {
				return err
			}
			choices = append(choices, choice)
		}

		event.Choices = choices
		return nil
	})

	if err != nil {
		s.logger.Error("create event transaction failed", "error", err, "creator_id", creatorID.String())
		return nil, ErrPersistence
	}

	s.logger.Info("event created", "event_id", event.ID.String(), "creator_id", creatorID.String(), "choices", len(event.Choices))

	return event, nil
}

// CastVote records the vote of userID for the choice of eventID whose text
// matches choice exactly.
func (s *Service) CastVote(ctx context.Context, userID, eventID uuid.UUID, choice string) (*Vote, error) {
	var vote *Vote

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		event, err := s.repo.GetEventTx(ctx, tx, eventID)
		if err != nil {
			if persistence.IsRecordNotFound(err) {
				return ErrEventNotFound
			}
			return err
		}

		if event.IsClosedAt(s.now()) {
			return ErrVotingClosed
		}

		selected, err := s.repo.FindChoiceTx(ctx, tx, eventID, choice)
		if err != nil {
			if persistence.IsRecordNotFound(err) {
				return ErrChoiceNotFound
			}
			return err
		}

		// The uix_user_event constraint still guards the insert below
		// when a concurrent request passes this check.
		if _, err := s.repo.FindVoteTx(ctx, tx, userID, eventID); err == nil {
			return ErrAlreadyVoted
		} else if !persistence.IsRecordNotFound(err) {
			return err
		}

		vote, err = s.repo.CreateVoteTx(ctx, tx, &Vote{
			UserID:   userID,
			EventID:  eventID,
			ChoiceID: selected.ID,
		})
		return err
	})

	if err != nil {
		if isRuleError(err) {
			s.logger.Debug("vote rejected", "reason", err, "user_id", userID.String(), "event_id", eventID.String())
			return nil, err
		}

		if persistence.IsUniqueViolation(err) {
			s.logger.Info("vote rejected by uniqueness constraint", "user_id", userID.String(), "event_id", eventID.String())
			return nil, ErrAlreadyVoted
		}

		s.logger.Error("cast vote transaction failed", "error", err, "user_id", userID.String(), "event_id", eventID.String())
		return nil, ErrPersistence
	}

	s.logger.Info("vote cast", "user_id", userID.String(), "event_id", eventID.String(), "choice_id", vote.ChoiceID.String())

	return vote, nil
}

// GetEvent returns an event with its choices
func (s *Service) GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	var event *Event

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if event, err = s.repo.GetEventTx(ctx, tx, eventID); err != nil {
			return err
		}
		event.Choices, err = s.repo.ListChoicesTx(ctx, tx, eventID)
		return err
	})

	if err != nil {
		if persistence.IsRecordNotFound(err) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("get event failed", "error", err, "event_id", eventID.String())
		return nil, ErrPersistence
	}

	return event, nil
}

func isRuleError(err error) bool {
	for _, target := range []error{ErrEventNotFound, ErrVotingClosed, ErrChoiceNotFound, ErrAlreadyVoted} {
		if goerrors.Is(err, target) {
			return true
		}
	}
	return false
}
