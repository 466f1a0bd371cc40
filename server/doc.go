// Package server exposes the vote service over HTTP using fiber.
//
// Controllers bind and validate payloads, call into the auth and events
// packages and return errors untouched. A single error handler maps the
// go-errors code of each failure to the response status and writes the
// message as {"detail": "..."}.
package server
