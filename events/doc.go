// Package events holds the vote rule engine: events with two to four choices,
// and at most one vote per user per event.
//
// CreateEvent writes an event and its choices in a single transaction so a
// partially created event is never observable. CastVote validates in a fixed
// order (event, expiry, choice, duplicate) and relies on the uix_user_event
// constraint as the final arbiter when two requests race past the duplicate
// check.
package events
