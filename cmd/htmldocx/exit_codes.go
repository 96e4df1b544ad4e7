package main

import (
	"errors"

	"github.com/benjaminschreck/go-htmldocx/pkg/htmldocx"
)

// Exit codes for the htmldocx CLI.
const (
	ExitSuccess = 0 // Successful conversion
	ExitUsage   = 1 // Invalid flags, arguments or configuration
	ExitFailure = 2 // A conversion or inspection failed
)

// exitCodeFor maps an error to an exit code. Callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, htmldocx.ErrInvalidConfig) ||
		errors.Is(err, htmldocx.ErrUnknownNormalizer) {
		return ExitUsage
	}
	return ExitFailure
}
