package engine

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kind classifies an engine failure. Callers react to the kind, so kinds are
// never collapsed into one another.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindConflict
	KindStorage
	KindMedia
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	case KindConflict:
		return "CONFLICT"
	case KindStorage:
		return "STORAGE_FAILURE"
	case KindMedia:
		return "MEDIA_FAILURE"
	}
	return "UNKNOWN"
}

// Error is returned by every engine operation.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Op is the operation that failed, e.g. "delete-post".
	Op string

	// Msg is safe to show to the caller.
	Msg string

	// Err is the underlying store or media error, if any.
	Err error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrStorage    = &Error{Kind: KindStorage}
	ErrMedia      = &Error{Kind: KindMedia}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Msg == ""
}

// KindOf returns the kind of the first *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Message returns the caller-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}

func validationError(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

func notFound(op, what string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: what + " not found"}
}

func forbidden(op, msg string) error {
	return &Error{Kind: KindForbidden, Op: op, Msg: msg}
}

func conflict(op, msg string) error {
	return &Error{Kind: KindConflict, Op: op, Msg: msg}
}

func storageFailure(op, step string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Msg: "storage failure during " + step, Err: err}
}

func mediaFailure(op, step string, err error) error {
	return &Error{Kind: KindMedia, Op: op, Msg: "media failure during " + step, Err: err}
}

// lookupFailure maps a store read error: a missing document is NotFound,
// anything else is a storage failure.
func lookupFailure(op, what string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound(op, what)
	}
	return storageFailure(op, "load "+what, err)
}

// writeFailure maps a reference-list write error: a missing owner is
// NotFound, anything else is a storage failure on the update.
func writeFailure(op, what string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound(op, what)
	}
	return storageFailure(op, "update "+what, err)
}
