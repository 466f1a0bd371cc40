package events

import (
	goerrors "github.com/goliatone/go-errors"
)

// ErrInvalidChoiceCount is returned when an event has fewer than two or more than four choices
var ErrInvalidChoiceCount = goerrors.New("Failed to create event, choices must be between 2 and 4!", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("INVALID_CHOICE_COUNT")

var ErrEventNotFound = goerrors.New("Event not found.", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode("EVENT_NOT_FOUND")

// ErrVotingClosed is returned for votes cast after the event expired
var ErrVotingClosed = goerrors.New("Voting for this event has ended.", goerrors.CategoryOperation).
	WithCode(goerrors.CodeForbidden).
	WithTextCode("VOTING_CLOSED")

var ErrChoiceNotFound = goerrors.New("The selected choice does not exist for this event.", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode("CHOICE_NOT_FOUND")

// ErrAlreadyVoted is returned for a second vote by the same user on the same event
var ErrAlreadyVoted = goerrors.New("You have already voted in this event.", goerrors.CategoryConflict).
	WithCode(goerrors.CodeConflict).
	WithTextCode("ALREADY_VOTED")

// ErrPersistence hides storage failures from callers
var ErrPersistence = goerrors.New("Something went wrong, please try again later", goerrors.CategoryInternal).
	WithCode(goerrors.CodeInternal).
	WithTextCode("PERSISTENCE_ERROR")
