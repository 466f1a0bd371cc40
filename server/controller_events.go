package server

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-vote/auth"
	"github.com/goliatone/go-vote/events"
	"github.com/goliatone/go-vote/middleware/jwtware"
	"github.com/google/uuid"
)

const createdEventMessage = "Successfully create event"

// choices travel as a single path segment when voting
var choiceText = regexp.MustCompile(`^[^/]*$`)

func RegisterEventRoutes[T any](app router.Router[T], controller *EventsController, protected router.MiddlewareFunc) {
	app.Post("/events", controller.Create, protected).SetName("events.create")
	app.Get("/events/:event_id", controller.Get).SetName("events.get")
	app.Post("/vote/:event_id/:choice", controller.Vote, protected).SetName("events.vote")
}

type EventsController struct {
	Debug  bool
	Logger Logger
	Events VoteService
}

// ChoicePayload is one option of an event
type ChoicePayload struct {
	Choice string `json:"choice"`
}

// Validate will run validation rules
func (r ChoicePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Choice,
			validation.Required,
			validation.Length(1, 200),
			validation.Match(choiceText).Error("must not contain '/'"),
		),
	)
}

// EventCreatePayload is the event creation body.
// The number of choices is checked by the rule engine.
type EventCreatePayload struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Choices     []ChoicePayload `json:"choices"`
	ExpiresAt   *string         `json:"expires_at"`
}

// ExpiresAtTime parses expires_at. The timestamp must carry a timezone.
func (r EventCreatePayload) ExpiresAtTime() (*time.Time, error) {
	if r.ExpiresAt == nil || strings.TrimSpace(*r.ExpiresAt) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*r.ExpiresAt))
	if err != nil {
		return nil, ErrInvalidExpiresAt
	}
	return &t, nil
}

// Validate will run validation rules
func (r EventCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Choices),
	)
}

// EventCreated is the event creation response body
type EventCreated struct {
	Detail string    `json:"detail"`
	ID     uuid.UUID `json:"id"`
}

func (a *EventsController) Create(ctx router.Context) error {
	user, ok := jwtware.CurrentUser(ctx)
	if !ok {
		return auth.ErrMissingToken
	}

	payload := new(EventCreatePayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Warn("create event parse payload", "error", err)
		return ErrInvalidPayload
	}

	payload.Name = strings.TrimSpace(payload.Name)

	if err := payload.Validate(); err != nil {
		return newValidationError(err, "Invalid event payload")
	}

	expiresAt, err := payload.ExpiresAtTime()
	if err != nil {
		return err
	}

	if a.Debug {
		a.Logger.Debug("create event payload", "payload", print.MaybePrettyJSON(payload))
	}

	choices := make([]string, 0, len(payload.Choices))
	for _, ch := range payload.Choices {
		choices = append(choices, ch.Choice)
	}

	event, err := a.Events.CreateEvent(ctx.Context(), user.ID, events.CreateEventInput{
		Title:       payload.Name,
		Description: payload.Description,
		ExpiresAt:   expiresAt,
		Choices:     choices,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, EventCreated{
		Detail: createdEventMessage,
		ID:     event.ID,
	})
}

func (a *EventsController) Get(ctx router.Context) error {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return ErrInvalidEventID
	}

	event, err := a.Events.GetEvent(ctx.Context(), eventID)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, event)
}

func (a *EventsController) Vote(ctx router.Context) error {
	user, ok := jwtware.CurrentUser(ctx)
	if !ok {
		return auth.ErrMissingToken
	}

	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return ErrInvalidEventID
	}

	vote, err := a.Events.CastVote(ctx.Context(), user.ID, eventID, ctx.Param("choice"))
	if err != nil {
		return err
	}

	a.Logger.Info("vote cast",
		"event_id", eventID.String(),
		"user_id", user.ID.String(),
		"choice_id", vote.ChoiceID.String(),
	)

	return ctx.JSON(router.StatusOK, Detail{Detail: events.VotedMessage})
}
