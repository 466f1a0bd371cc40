// Package auth provides the credential and token lifecycle of the voting
// service: bcrypt password hashing, JWT issuance and validation, the users
// repository, registration and login, and the Gate that resolves an inbound
// token into a persisted User.
//
// Tokens:
//   - TokenService signs a self contained assertion carrying the subject id and
//     an absolute expiry with a process wide secret and a single algorithm.
//     Validate rejects any other algorithm, tampered signatures, malformed
//     tokens and expired tokens with ErrInvalidToken.
//
// Gate:
//   - Gate.Resolve validates the token and loads the subject from the users
//     store. An invalid token yields ErrUnauthenticated, a subject that no
//     longer exists yields ErrUserNotFound. Resolve never writes.
package auth
