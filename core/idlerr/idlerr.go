// Package idlerr implements the error taxonomy from the IDL core's design:
// every failure carries a Kind, a breadcrumbs trail locating where in the
// document/value tree it happened, and an optional wrapped cause.
//
// The taxonomy deliberately does not recover locally - the codec, the
// parser, and the hydrator all surface the first failure they hit. The
// resolver is the one component allowed to retry (a fixed-point loop), and
// even it gives up and returns Unresolvable* once a pass makes no progress.
package idlerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names one of the taxonomy's error categories.
type Kind string

const (
	KindParseFailure         Kind = "PARSE_FAILURE"
	KindUnresolvedGeneric    Kind = "UNRESOLVED_GENERIC"
	KindCyclicTypedef        Kind = "CYCLIC_TYPEDEF"
	KindUnsupportedRepr      Kind = "UNSUPPORTED_REPR"
	KindNumericOutOfRange    Kind = "NUMERIC_OUT_OF_RANGE"
	KindInvalidFloat         Kind = "INVALID_FLOAT"
	KindInvalidOptionTag     Kind = "INVALID_OPTION_TAG"
	KindUnknownEnumVariant   Kind = "UNKNOWN_ENUM_VARIANT"
	KindInvalidUtf8          Kind = "INVALID_UTF8"
	KindUnderflowReadingByte Kind = "UNDERFLOW_READING_BYTES"
	KindExpectedExactBytes   Kind = "EXPECTED_EXACT_BYTES"
	KindBadDiscriminator     Kind = "BAD_DISCRIMINATOR"
	KindBadSpace             Kind = "BAD_SPACE"
	KindBadBlob              Kind = "BAD_BLOB"
	KindPathNotFound         Kind = "PATH_NOT_FOUND"
	KindPathTypeMismatch     Kind = "PATH_TYPE_MISMATCH"
	KindUnresolvableAddrs    Kind = "UNRESOLVABLE_ADDRESSES"
	KindUnresolvableCycle    Kind = "UNRESOLVABLE_CYCLE"
	KindCancelled            Kind = "CANCELLED"
	KindFetcherFailure       Kind = "FETCHER_FAILURE"
)

// Error is the concrete type every failure in the IDL core is returned as.
type Error struct {
	Kind        Kind
	Breadcrumbs []string
	Detail      string
	Cause       error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if len(e.Breadcrumbs) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Breadcrumbs, "."))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, idlerr.New(idlerr.KindPathNotFound, "")).
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return o.Kind == e.Kind
	}
	return false
}

// New builds a bare error of the given kind.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap builds an error of the given kind, wrapping a lower-level cause.
func Wrap(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Cause: cause}
}

// WithCrumb returns a copy of e with crumb added to the front of the
// breadcrumbs trail. Crumbs are added while unwinding from the failure
// point, so the trail reads outermost-first, e.g. "accounts.MyAccount.space".
func (e *Error) WithCrumb(crumb string) *Error {
	next := &Error{
		Kind:   e.Kind,
		Detail: e.Detail,
		Cause:  e.Cause,
	}
	next.Breadcrumbs = append([]string{crumb}, e.Breadcrumbs...)
	return next
}

// WithCrumbf is WithCrumb with Sprintf formatting.
func (e *Error) WithCrumbf(format string, args ...interface{}) *Error {
	return e.WithCrumb(fmt.Sprintf(format, args...))
}

// Crumb wraps err with crumb if err is already an *Error (preserving Kind and
// Cause), or wraps it as a bare KindParseFailure otherwise. This lets callers
// thread breadcrumbs through recursive descent without type-switching at
// every call site.
func Crumb(err error, crumb string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e.WithCrumb(crumb)
	}
	return Wrap(KindParseFailure, "", err).WithCrumb(crumb)
}

// KindOf extracts the Kind from err, ok=false if err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// BadDiscriminator is the §7 mismatch error comparing an expected and found
// discriminator prefix.
func BadDiscriminator(expected, found []byte) *Error {
	return &Error{
		Kind:   KindBadDiscriminator,
		Detail: fmt.Sprintf("expected %x, found %x", expected, found),
	}
}

// BadSpace is the §7 mismatch error comparing an expected and found account
// byte length.
func BadSpace(expected, found int) *Error {
	return &Error{
		Kind:   KindBadSpace,
		Detail: fmt.Sprintf("expected %d bytes, found %d", expected, found),
	}
}

// BadBlob is the §7 mismatch error for a constant-bytes check at a fixed
// offset.
func BadBlob(offset int, expected []byte) *Error {
	return &Error{
		Kind:   KindBadBlob,
		Detail: fmt.Sprintf("offset %d expected %x", offset, expected),
	}
}

// UnresolvableAddresses is the resolver's terminal failure naming every
// instruction account that remained unbound after the fixed point.
func UnresolvableAddresses(names []string) *Error {
	return &Error{
		Kind:   KindUnresolvableAddrs,
		Detail: fmt.Sprintf("could not resolve: %s", strings.Join(names, ", ")),
	}
}
