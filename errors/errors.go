package errors

import (
	"errors"
	"fmt"
)

// Common error types for categorization and handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid user input
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable indicates the embedding or generation backend is
	// down or unreachable. Recovered locally by strategy/template fallback.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrCorpusUnavailable indicates the historical inquiry corpus could not
	// be loaded. Fatal at startup unless the fixture corpus is enabled.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrValidationFailed indicates a generated response did not pass the
	// response validator. Recovered by a single conservative retry.
	ErrValidationFailed = errors.New("response validation failed")

	// ErrGenerationFailed indicates the generation backend returned an error
	ErrGenerationFailed = errors.New("generation failed")
)

// WrapError wraps an error with context message and stack
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsProviderUnavailable checks if error is a provider unavailable error
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// IsCorpusUnavailable checks if error is a corpus unavailable error
func IsCorpusUnavailable(err error) bool {
	return errors.Is(err, ErrCorpusUnavailable)
}

// IsValidationFailed checks if error is a validation failure
func IsValidationFailed(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}
