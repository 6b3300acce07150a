package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Error is a structured error carrying a code, a human-readable message and
// optional key/value context describing which input caused it.
type Error struct {
	// Code classifies the failure.
	Code ErrorCode

	// Message is safe to show to users. It never contains secret material.
	Message string

	// Context holds identifying details such as the provider or field name.
	Context map[string]any

	// Err is the underlying cause, if any.
	Err error

	// base is the sentinel this error was derived from.
	base *Error
}

// New creates an Error with the given code and message.
func New(code ErrorCode, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates an Error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message. Returns nil if err is nil.
func Wrap(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// WrapWithContext wraps err with a code, message and context map. Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, msg string, ctx map[string]any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Context: maps.Clone(ctx), Err: err}
}

// Error implements the error interface. Context entries are appended in key order.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString(")")
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether e and target share the same sentinel. Errors returned by
// WithContext and WithMessage keep the sentinel they were derived from. A target
// carrying only a code, as built by HasCode, matches any error with that code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !stderrors.As(target, &t) {
		return false
	}
	if t.codeOnly() {
		return e.Code == t.Code
	}
	return e.root() == t.root()
}

// WithContext returns a copy of the error with key set to value.
// The receiver is left untouched so sentinels can be decorated safely.
func (e *Error) WithContext(key string, value any) *Error {
	ctx := make(map[string]any, len(e.Context)+1)
	maps.Copy(ctx, e.Context)
	ctx[key] = value

	derived := e.derive()
	derived.Context = ctx
	return derived
}

// WithMessage returns a copy of the error with a more specific message. The copy
// still matches the receiver with errors.Is.
func (e *Error) WithMessage(msg string) *Error {
	derived := e.derive()
	derived.Message = msg
	return derived
}

func (e *Error) derive() *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Context: e.Context,
		Err:     e.Err,
		base:    e.root(),
	}
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}
	return e
}

func (e *Error) codeOnly() bool {
	return e.Message == "" && len(e.Context) == 0 && e.Err == nil && e.base == nil
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HasCode reports whether err's chain contains an *Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, &Error{Code: code})
}

// IsRetryable reports whether err is classified as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return CodeOf(err).Retryable()
}
