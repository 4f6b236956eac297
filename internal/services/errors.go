package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hosico-labs/bounty-backend/internal/repositories"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyFinalized = errors.New("already finalized")
	ErrStore            = errors.New("store error")
	ErrTimeout          = errors.New("request timed out")
)

// Error is a classified failure carrying a caller-facing message.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func validationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func unauthorizedError(msg string) error {
	return &Error{Kind: ErrUnauthorized, Msg: msg}
}

func notFoundError(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func alreadyFinalizedError() error {
	return &Error{Kind: ErrAlreadyFinalized, Msg: "the winners have already been selected"}
}

// storeError wraps an unexpected repository failure. Context deadlines are
// reported as timeouts instead.
func storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: ErrTimeout, Msg: "request timed out", Cause: err}
	}
	return &Error{Kind: ErrStore, Msg: "failed to " + op, Cause: err}
}

// fromRepository translates the repository sentinels for a lookup of entity.
func fromRepository(entity, op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFoundError("%s not found", entity)
	case errors.Is(err, repositories.ErrConditionFailed):
		return alreadyFinalizedError()
	case errors.Is(err, repositories.ErrNotEnded):
		return validationError("bounty has not ended")
	case errors.Is(err, repositories.ErrDuplicate):
		return validationError("%s already exists", entity)
	default:
		return storeError(op, err)
	}
}
