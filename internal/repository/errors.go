// Package repository implements persistence for films, users and ratings
// over MySQL. Every mutation runs inside a single transaction that performs
// its validation reads and its write together, so the integrity checks are
// atomic with the statement they guard. The sentinel errors below are the
// only failure values handlers need to distinguish; anything else is an
// unexpected store error and is propagated unmodified.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateMail signals the unique-mail constraint: another user already
// holds the same address (compared case-insensitively).
var ErrDuplicateMail = errors.New("mail already in use")

// ErrDuplicateNotation signals that the (utilisateur, film) pair already has
// a rating. Re-rating must go through update.
var ErrDuplicateNotation = errors.New("notation already exists for this utilisateur and film")

// ErrNoteOutOfRange signals a note outside the [0,5] bound.
var ErrNoteOutOfRange = errors.New("note out of range 0..5")

// ErrMissingReference signals that a notation points at a utilisateur or
// film that does not exist.
var ErrMissingReference = errors.New("referenced utilisateur or film does not exist")

// ErrRestrictDelete signals that the row still has referencing notations,
// so the delete was aborted with no effect.
var ErrRestrictDelete = errors.New("row is still referenced by notations")

// ErrConcurrency signals that the optimistic version check failed: another
// writer committed between the caller's read and this update. The caller
// decides whether to re-fetch and retry.
var ErrConcurrency = errors.New("concurrent modification detected")
