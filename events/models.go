package events

import (
	"time"

	"github.com/goliatone/go-vote/persistence"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// MinChoices is the smallest number of choices an event accepts
	MinChoices = 2
	// MaxChoices is the largest number of choices an event accepts
	MaxChoices = 4
)

// Event is a poll created by a user
type Event struct {
	bun.BaseModel `bun:"table:event,alias:evt"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   *string    `bun:"description" json:"description,omitempty"`
	ExpiresAt     *time.Time `bun:"expires_at,nullzero" json:"expires_at,omitempty"`
	CreatorID     uuid.UUID  `bun:"creator_id,notnull,type:uuid" json:"creator_id"`
	Choices       []*Choice  `bun:"-" json:"choices,omitempty"`
}

// IsClosedAt reports whether voting has ended at t.
// Voting is still open at exactly ExpiresAt.
func (e *Event) IsClosedAt(t time.Time) bool {
	return e != nil && e.ExpiresAt != nil && t.After(*e.ExpiresAt)
}

// Choice is one option of an event. Position keeps the order the
// choices were submitted in.
type Choice struct {
	bun.BaseModel `bun:"table:choice,alias:chc"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Choice        string    `bun:"choice,notnull" json:"choice"`
	Position      int       `bun:"position,notnull,default:0" json:"-"`
	EventID       uuid.UUID `bun:"event_id,notnull,type:uuid" json:"event_id"`
}

// Vote records the choice of a user for an event
type Vote struct {
	bun.BaseModel `bun:"table:vote,alias:vot"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid,unique:uix_user_event" json:"user_id"`
	ChoiceID      uuid.UUID  `bun:"choice_id,notnull,type:uuid" json:"choice_id"`
	EventID       uuid.UUID  `bun:"event_id,notnull,type:uuid,unique:uix_user_event" json:"event_id"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
}

// Tables lists the event models in creation order.
// The users table must exist before these are created.
func Tables() []persistence.Table {
	return []persistence.Table{
		{
			Model: (*Event)(nil),
			ForeignKeys: []string{
				`("creator_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			},
		},
		{
			Model: (*Choice)(nil),
			ForeignKeys: []string{
				`("event_id") REFERENCES "event" ("id") ON DELETE CASCADE`,
			},
		},
		{
			Model: (*Vote)(nil),
			ForeignKeys: []string{
				`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
				`("choice_id") REFERENCES "choice" ("id") ON DELETE CASCADE`,
				`("event_id") REFERENCES "event" ("id") ON DELETE CASCADE`,
			},
		},
	}
}
