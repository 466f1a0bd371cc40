// Package persistence opens the relational store behind the voting service
// and owns the pieces every repository shares: table creation, transaction
// scopes, and classification of driver errors.
//
// Repositories never inspect driver error strings. Uniqueness violations are
// detected from the structured error types of the SQLite and PostgreSQL
// drivers so callers can map them to domain conflicts.
package persistence
