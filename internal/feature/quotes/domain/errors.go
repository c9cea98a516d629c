// Package domain defines domain-level errors shared by the quote, ranking
// and history features.
package domain

import "errors"

var (
	// ErrInvalidArgument is returned for malformed caller input such as an
	// empty symbol list, a blank symbol or a top-N below one.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLookupFailed marks a failed per-symbol quote lookup. The aggregator
	// recovers it locally and never returns it to callers.
	ErrLookupFailed = errors.New("quote lookup failed")

	// ErrEmptyUniverse marks a ranking with no surviving symbols. Callers
	// receive an empty table, not this error.
	ErrEmptyUniverse = errors.New("no symbols with a dividend yield")

	// ErrHistoryUnavailable marks a symbol with no history for the requested
	// window. It is recovered as an empty series.
	ErrHistoryUnavailable = errors.New("history unavailable")

	// ErrUniverseUnavailable wraps a failure to read the stored symbol universe.
	ErrUniverseUnavailable = errors.New("symbol universe unavailable")
)
