// Package errors defines the structured error type shared by the
// service, the store, and the HTTP edge.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure into the small set of outcomes callers can
// act on.
type Kind string

const (
	KindInternal   Kind = "internal"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindBadRequest Kind = "bad_request"
)

// HTTPStatus maps a kind to the status the HTTP edge responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is the universal error type between the packages of this
// service.
type Error struct {
	Kind    Kind
	Err     error // The error this wraps
	Details []Detail
}

type Detail struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s, details: %v", e.Kind, e.Err, e.Details)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type transport struct {
	Message string   `json:"message"`
	Kind    Kind     `json:"kind"`
	Details []Detail `json:"details,omitempty"`
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(transport{
		Message: e.Err.Error(),
		Kind:    e.Kind,
		Details: e.Details,
	})
}

func (e *Error) UnmarshalJSON(byts []byte) error {
	t := transport{}
	if err := json.Unmarshal(byts, &t); err != nil {
		return err
	}

	e.Err = errors.New(t.Message)
	e.Kind = t.Kind
	e.Details = t.Details
	return nil
}

// E builds an Error from its arguments: a string becomes the message, an
// error the wrapped cause, a Kind the classification, and details get
// appended. When both a message and a cause are given the cause is
// wrapped under the message.
func E(args ...any) *Error {
	ret := &Error{
		Kind: KindInternal,
	}

	var (
		msg   string
		cause error
	)
	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			msg = arg
		case error:
			cause = arg
		case Kind:
			ret.Kind = arg
		case Detail:
			ret.Details = append(ret.Details, arg)
		case []Detail:
			ret.Details = append(ret.Details, arg...)
		}
	}

	switch {
	case msg != "" && cause != nil:
		ret.Err = fmt.Errorf("%s: %w", msg, cause)
	case cause != nil:
		ret.Err = cause
	default:
		ret.Err = errors.New(msg)
	}

	return ret
}

// KindOf extracts the kind from any error. Errors that never passed
// through E are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}
