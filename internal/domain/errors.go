package domain

import "errors"

var (
	// ErrInvalidName is returned when a submitted player name is empty after trimming or too long.
	ErrInvalidName = errors.New("invalid player name")
	// ErrIllegalTransition is returned when an action is invoked in a phase that does not support it.
	ErrIllegalTransition = errors.New("action not allowed in current phase")
	// ErrOptionNotFound indicates a submitted option ID is not part of the current question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidBank indicates the bank content breaks a structural invariant.
	ErrInvalidBank = errors.New("invalid question bank")
	// ErrScoreOutOfRange is returned when a session score falls outside [0, total].
	ErrScoreOutOfRange = errors.New("score out of range")
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("quiz session not found")
)
