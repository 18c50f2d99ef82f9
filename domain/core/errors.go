package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrUnknownSeries indicates a series identifier outside the fixed
	// acquisition naming grammar. This is a defect in the caller or the
	// registry and aborts the whole run.
	ErrUnknownSeries = errors.New("unknown acquisition series")

	// ErrMalformedArtifact indicates a metadata field that is present but
	// cannot be parsed into its expected shape. Recorded as an error-kind
	// outcome for the affected cell; never aborts the matrix.
	ErrMalformedArtifact = errors.New("malformed artifact")

	// ErrMissingTransform indicates reconciliation required an
	// image-to-scanner transform that the artifact does not carry.
	ErrMissingTransform = errors.New("image transform missing from artifact")

	// ErrMissingField indicates an optional metadata field is absent.
	// Policy is per capability: slice encoding falls back with a note,
	// phase encoding fails hard.
	ErrMissingField = errors.New("metadata field absent")
)

// Error constructors with context

func NewUnknownSeriesError(seriesID string) error {
	return fmt.Errorf("%w: %q does not match the acquisition naming grammar", ErrUnknownSeries, seriesID)
}

func NewMalformedArtifactError(path, field string, cause error) error {
	return fmt.Errorf("%w: field %q in %s: %v", ErrMalformedArtifact, field, path, cause)
}

func NewMissingFieldError(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// Error checking helpers

func IsUnknownSeries(err error) bool {
	return errors.Is(err, ErrUnknownSeries)
}

func IsMalformedArtifact(err error) bool {
	return errors.Is(err, ErrMalformedArtifact)
}

func IsMissingTransform(err error) bool {
	return errors.Is(err, ErrMissingTransform)
}

func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}
