package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindAuthMissing means no bearer token was available. No request was sent.
	KindAuthMissing Kind = iota + 1

	// KindRemoteRejected means the server answered with a non-2xx status,
	// or with a success body that could not be decoded.
	KindRemoteRejected

	// KindNetworkFailure means the request never produced a response.
	KindNetworkFailure
)

func (k Kind) String() string {
	switch k {
	case KindAuthMissing:
		return "auth missing"
	case KindRemoteRejected:
		return "remote rejected"
	case KindNetworkFailure:
		return "network failure"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is against an *Error of the matching Kind.
var (
	ErrAuthMissing    = errors.New("no authentication token found, please log in again")
	ErrRemoteRejected = errors.New("remote rejected request")
	ErrNetworkFailure = errors.New("network failure")
	errUnexpectedKind = errors.New("unexpected error kind")
)

// Error is returned by every Client call that fails.
type Error struct {
	Kind Kind
	Op   string

	// Status is the HTTP status for KindRemoteRejected, otherwise 0. A
	// malformed success body keeps its 2xx status.
	Status int

	// Message is what the user should see: the server's response body, or
	// a generic description when the body was empty.
	Message string

	// Err is the underlying transport error for KindNetworkFailure, or the
	// decoding error for a malformed success body.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAuthMissing:
		return fmt.Sprintf("%s: %s", e.Op, ErrAuthMissing)
	case KindNetworkFailure:
		return fmt.Sprintf("%s: %s: %v", e.Op, ErrNetworkFailure, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

// Unwrap returns the transport error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindAuthMissing:
		return ErrAuthMissing
	case KindRemoteRejected:
		return ErrRemoteRejected
	case KindNetworkFailure:
		return ErrNetworkFailure
	default:
		return errUnexpectedKind
	}
}

// UserMessage returns the text to show a user for err. Client errors yield
// their Message, anything else its Error string.
func UserMessage(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		switch ce.Kind {
		case KindAuthMissing:
			return "No authentication token found. Please log in again."
		case KindRemoteRejected:
			return ce.Message
		}
	}
	return err.Error()
}
