package service

import "errors"

// Domain errors surfaced to handlers; mapped to HTTP statuses at the request
// boundary. Storage failures are deliberately kept distinct and bubble up
// wrapped, so they translate to 500 rather than a validation status.
var (
	// ErrEmailTaken signals a registration with an already-used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionNotActive signals a check-in against an absent or ended session.
	ErrSessionNotActive = errors.New("session not active")
	// ErrAlreadyMarked signals a duplicate check-in for the same session.
	ErrAlreadyMarked = errors.New("attendance already marked")
	// ErrSessionNotFound signals that no matching session exists for the
	// caller; wrong owner and already-ended collapse into this.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoteEmpty signals note content that sanitization reduced to nothing.
	ErrNoteEmpty = errors.New("note content empty after sanitization")
)
