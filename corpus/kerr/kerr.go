// Package kerr defines the error kinds the query engine surfaces to
// its callers. There are four: invalid query, search/index failure,
// metadata store failure, and corpus-not-ready. All four are modeled
// as one small Kind enum plus a wrapping Error type, rather than four
// distinct struct types.
//
// The core never retries, logs, or otherwise side-effects on any of
// these: they propagate verbatim to the caller.
package kerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// InvalidQuery covers wildcard validation failures, an empty or
	// unparsable mode, and malformed search-term structure. Recoverable;
	// the message is meant to be shown to the caller verbatim.
	InvalidQuery Kind = iota
	// IndexFailure covers index open, segment read, term-dictionary
	// open, and postings open failures. Fatal for the request.
	IndexFailure
	// StoreFailure covers metadata store open, prepare, and row-decode
	// failures.
	StoreFailure
	// CorpusNotReady is a construction-time signal that the index
	// directory or metadata store is absent.
	CorpusNotReady
)

var kindNames = [...]string{
	InvalidQuery:   "invalid_query",
	IndexFailure:   "index_failure",
	StoreFailure:   "store_failure",
	CorpusNotReady: "corpus_not_ready",
}

// String returns the name of the error kind.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a kerr.Kind with a descriptive message and, optionally, the
// underlying error it wraps.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New builds an Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind around an underlying error.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Wrapped: cause}
}

// Is reports whether err is a *kerr.Error of the given kind, unwrapping
// as needed.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
