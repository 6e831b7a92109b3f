package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
)

// Exit codes for hitcurl CLI
const (
	// ExitSuccess indicates the request was sent and a response received
	ExitSuccess = 0

	// ExitFailure indicates an unclassified failure
	ExitFailure = 1

	// ExitValidationError indicates invalid options, detected before any I/O
	ExitValidationError = 2

	// ExitResourceError indicates a local file could not be read or written
	ExitResourceError = 3

	// ExitTransportError indicates a network/connection error
	ExitTransportError = 4

	// ExitSigningError indicates the request could not be signed
	ExitSigningError = 5

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// reportedError marks an error that has already been printed.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch errs.CategoryOf(err) {
	case errs.CategoryValidation:
		return ExitValidationError
	case errs.CategoryResource:
		return ExitResourceError
	case errs.CategorySigning:
		return ExitSigningError
	case errs.CategoryTransport:
		return ExitTransportError
	}

	// Errors that never reached the command body come from flag parsing.
	var rep reportedError
	if !errors.As(err, &rep) {
		return ExitUsageError
	}
	return ExitFailure
}
