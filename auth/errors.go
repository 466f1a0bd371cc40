package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// ErrInvalidToken is returned for tokens with a bad signature,
// a foreign algorithm, a malformed structure or a past expiry
var ErrInvalidToken = goerrors.New("Could not validate credentials", goerrors.CategoryAuth).
	WithCode(goerrors.CodeForbidden).
	WithTextCode("INVALID_TOKEN")

// ErrUnauthenticated is the gate outcome for a token that does not validate
var ErrUnauthenticated = goerrors.New("Could not validate credentials", goerrors.CategoryAuth).
	WithCode(goerrors.CodeForbidden).
	WithTextCode("UNAUTHENTICATED")

// ErrMissingToken is returned when a protected request carries no bearer token
var ErrMissingToken = goerrors.New("Not authenticated", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode("MISSING_TOKEN")

// ErrUserNotFound is returned when a user lookup matches nothing
var ErrUserNotFound = goerrors.New("User not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode("USER_NOT_FOUND")

// ErrInvalidCredentials hides whether the identifier or the password was wrong
var ErrInvalidCredentials = goerrors.New("Incorrect username or password", goerrors.CategoryAuth).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("INVALID_CREDENTIALS")

// ErrUserAlreadyExists is returned when the email or username is taken
var ErrUserAlreadyExists = goerrors.New("User registration failed, email or username already exists", goerrors.CategoryConflict).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("USER_EXISTS")

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode("EMPTY_PASSWORD")

// ErrPersistence is the storage catch all, the cause is logged and never returned
var ErrPersistence = goerrors.New("Something went wrong, please try again later", goerrors.CategoryInternal).
	WithCode(goerrors.CodeInternal).
	WithTextCode("PERSISTENCE_ERROR")
