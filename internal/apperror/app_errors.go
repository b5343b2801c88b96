package apperror

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrIllegalMove          = errors.New("illegal move")
	ErrInvalidGuess         = errors.New("invalid guess")
	ErrSessionTerminated    = errors.New("session is already terminated")
	ErrSessionNotFound      = errors.New("session not found")
	ErrUnknownKind          = errors.New("unknown puzzle kind")
)
