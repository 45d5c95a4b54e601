// Package apperr defines the closed error taxonomy of the audit core.
//
// A snippet that fails to compile is NOT an error here: that is the expected
// negative outcome and is recorded as data on the audit row. Errors exist
// only for "the checker is broken" (Toolchain), "the store rejected us"
// (Persistence) and "no such record" (NotFound).
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindToolchain: the compiler could not be invoked or its output could
	// not be interpreted. The snippet's validity was never determined.
	KindToolchain Kind = iota
	// KindPersistence: the store rejected a read or write.
	KindPersistence
	// KindNotFound: lookup by id found no record.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindToolchain:
		return "toolchain"
	case KindPersistence:
		return "persistence"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error carries a kind plus the underlying cause. errors.Is/As work
// through it.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func Toolchain(err error, msg string) *Error {
	return &Error{Kind: KindToolchain, Msg: msg, Err: err}
}

func Persistence(err error, msg string) *Error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Msg: resource + " not found"}
}

// KindOf extracts the taxonomy kind, or ok=false for foreign errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNotFound
}

func IsToolchain(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindToolchain
}

func IsPersistence(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindPersistence
}
