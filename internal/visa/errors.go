package visa

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceNotFound means the reference data is absent from every
	// candidate location. An operator has to re-provision it.
	ErrSourceNotFound = errors.New("reference source not found")

	// ErrSourceUnreadable means the reference data exists but is corrupt or
	// not in the expected format.
	ErrSourceUnreadable = errors.New("reference source unreadable")

	// ErrIncompleteQuery means one or more query fields were left unselected.
	ErrIncompleteQuery = errors.New("incomplete query")

	// ErrNoMatch means the query is valid but no rule corresponds to it.
	// It is a legitimate result, not a failure.
	ErrNoMatch = errors.New("no matching visa rule")
)

// SourceError records which source operation failed and where.
// It unwraps to ErrSourceNotFound or ErrSourceUnreadable.
type SourceError struct {
	Op   string // "locate", "open", "decode", "query"
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }

// unreadable wraps cause so that it matches ErrSourceUnreadable.
func unreadable(op, path string, cause error) error {
	return &SourceError{Op: op, Path: path, Err: fmt.Errorf("%w: %v", ErrSourceUnreadable, cause)}
}

// QueryError lists the fields missing from a Query.
type QueryError struct {
	Missing []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrIncompleteQuery, strings.Join(e.Missing, ", "))
}

func (e *QueryError) Unwrap() error { return ErrIncompleteQuery }

// IsUnavailable reports whether err means the reference data cannot be used.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrSourceNotFound) || errors.Is(err, ErrSourceUnreadable)
}
