package jsonedit

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind classifies the failures an Editor reports.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidData
	KindKeyAlreadyExists
	KindKeyNotFound
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidData:
		return "invalid data"
	case KindKeyAlreadyExists:
		return "key already exists"
	case KindKeyNotFound:
		return "key not found"
	case KindIO:
		return "i/o error"
	}
	return "unknown error (" + strconv.Itoa(int(k)) + ")"
}

// Sentinel errors, one per Kind. Match them with errors.Is.
var (
	// ErrNotFound is returned when a storage location cannot be opened.
	ErrNotFound = &kindError{KindNotFound}

	// ErrInvalidData is returned when stored bytes are not a well-formed
	// document, or a document cannot be encoded.
	ErrInvalidData = &kindError{KindInvalidData}

	// ErrKeyAlreadyExists is returned by Add when the key is present.
	ErrKeyAlreadyExists = &kindError{KindKeyAlreadyExists}

	// ErrKeyNotFound is returned by Remove when the key is absent.
	ErrKeyNotFound = &kindError{KindKeyNotFound}

	// ErrIO is returned when reading or writing an opened location fails.
	ErrIO = &kindError{KindIO}
)

type kindError struct{ kind Kind }

func (e *kindError) Error() string { return e.kind.String() }

// Error describes a failed Editor operation.
type Error struct {
	Op       string // operation, e.g. "open", "save", "remove"
	Location string // storage location, empty for in-memory operations
	Key      string // document key, empty when not key specific
	Kind     Kind
	Err      error // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Location != "" {
		msg += " " + strconv.Quote(e.Location)
	}
	if e.Key != "" {
		msg += " key " + strconv.Quote(e.Key)
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*kindError)
	return ok && t.kind == e.Kind
}

// KindOf returns the Kind of the first *Error or sentinel in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k *kindError
	if errors.As(err, &k) {
		return k.kind
	}
	return KindUnknown
}

func newError(op, location, key string, kind Kind, err error) error {
	return &Error{Op: op, Location: location, Key: key, Kind: kind, Err: err}
}

// errorf wraps a formatted cause into an *Error.
func errorf(op, location string, kind Kind, format string, args ...any) error {
	return newError(op, location, "", kind, fmt.Errorf(format, args...))
}
