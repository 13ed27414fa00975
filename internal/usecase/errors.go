package usecase

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("conflicting state")
	ErrCorruptSchedule = errors.New("schedule document is corrupted")
	ErrUnauthorized    = errors.New("unauthorized")

	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func isInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func isConflict(err error) bool { return errors.Is(err, ErrConflict) }
