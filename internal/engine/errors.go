package engine

import "errors"

// ErrorKind buckets rule errors for the transport layer. Every engine error
// is an expected rule violation returned as a value, never a panic.
type ErrorKind string

const (
	KindInvalidInput  ErrorKind = "invalid_input"
	KindNotFound      ErrorKind = "not_found"
	KindForbidden     ErrorKind = "forbidden"
	KindStateConflict ErrorKind = "state_conflict"
)

func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrCardIndex):
		return KindInvalidInput
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrOpponentMissing):
		return KindNotFound
	case errors.Is(err, ErrGameFinished), errors.Is(err, ErrWrongTurn):
		return KindForbidden
	case errors.Is(err, ErrNoActiveCard), errors.Is(err, ErrOpponentNoActiveCard):
		return KindStateConflict
	default:
		return KindInvalidInput
	}
}
