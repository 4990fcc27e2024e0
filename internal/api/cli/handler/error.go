package handler

import (
	"errors"

	"github.com/dtroode/quantum-mirror/internal/model"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitInternal     = 1
	ExitInvalidInput = 2
	ExitNotPermitted = 3
)

// Error is a failure ready to be shown to the visitor.
type Error struct {
	Code    int
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

// ExitStatus returns the process exit code for err.
func ExitStatus(err error) int {
	if err == nil {
		return ExitOK
	}
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Code
	}
	return ExitInternal
}

func handleError(err error) error {
	if err == nil {
		return nil
	}
	var herr *Error
	if errors.As(err, &herr) {
		return err
	}

	switch {
	case errors.Is(err, model.ErrNotAuthorized):
		return &Error{Code: ExitNotPermitted, Message: "consent is required first, run: quantum-mirror consent grant", err: err}
	case errors.Is(err, model.ErrConsentIncomplete):
		return &Error{Code: ExitNotPermitted, Message: "privacy policy, terms and age confirmation are all required (--accept-privacy --accept-terms --confirm-age)", err: err}
	case errors.Is(err, model.ErrCreationInProgress):
		return &Error{Code: ExitNotPermitted, Message: "another avatar is still being created", err: err}
	case errors.Is(err, model.ErrNoStyleSelected),
		errors.Is(err, model.ErrInvalidStyle),
		errors.Is(err, model.ErrInvalidRetention),
		errors.Is(err, model.ErrInvalidChoice),
		errors.Is(err, model.ErrInvalidAchievement),
		errors.Is(err, model.ErrUnsupportedMedia),
		errors.Is(err, model.ErrMediaTooLarge),
		errors.Is(err, model.ErrEmptyMedia):
		return &Error{Code: ExitInvalidInput, Message: err.Error(), err: err}
	default:
		return &Error{Code: ExitInternal, Message: "internal error: " + err.Error(), err: err}
	}
}

func invalidInput(msg string) error {
	return &Error{Code: ExitInvalidInput, Message: msg}
}
