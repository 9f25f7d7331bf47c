package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
)

// wrapError categorises err unless a previous layer already did.
func wrapError(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return wrapError(err, goerrors.CategoryValidation, "command validation failed", commandValidationCode)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrapError(err, goerrors.CategoryCommand, "command execution cancelled", commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrapError(err, goerrors.CategoryCommand, "command execution deadline exceeded", commandContextTimeout)
	default:
		return wrapError(err, goerrors.CategoryCommand, "command context error", commandContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	return wrapError(err, goerrors.CategoryCommand, "command execution failed", commandExecuteFailed)
}
