package extract

import "errors"

// Error kinds surfaced by the engine. Strategy failures that have a fallback
// path (model -> rule-based) are recovered internally and never escape;
// everything else is returned verbatim to the caller.
var (
	// ErrSectionNotFound means a section hint was given but no part of the
	// document matched it.
	ErrSectionNotFound = errors.New("section not found")

	// ErrNoStructuredOutput means an external payload could not be coerced
	// into any record sequence.
	ErrNoStructuredOutput = errors.New("no structured output")

	// ErrServiceUnavailable means the requested strategy's backing service
	// is not configured.
	ErrServiceUnavailable = errors.New("service not configured")

	// ErrServiceError wraps network or status failures from an external
	// dependency.
	ErrServiceError = errors.New("service error")

	// ErrEmptyResult means extraction completed but produced zero rows with
	// any non-empty value.
	ErrEmptyResult = errors.New("extraction produced no rows")

	// ErrSchemaRequired means the external strategy was requested without
	// a target schema.
	ErrSchemaRequired = errors.New("external extraction requires at least one column definition")
)
