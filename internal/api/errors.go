package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindNetwork covers transport failures: refused connections, timeouts, cancellation.
	KindNetwork Kind = iota + 1
	// KindServer is a 500 from the backend.
	KindServer
	// KindRejected is any other non-200 status.
	KindRejected
	// KindDecode is a 200 whose body could not be decoded.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindRejected:
		return "rejected"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrEmailTaken is wrapped by the 500 the backend returns for a duplicate registration.
var ErrEmailTaken = errors.New("user with the provided email already exists")

const emailTakenMessage = "Error: El email ya está registrado. Intenta con otro email."

// Error is returned by every Client call that did not produce a usable body.
type Error struct {
	Kind       Kind
	Op         string // "register" or "create organization"
	StatusCode int    // 0 for network failures
	// Detail is the human readable part shown to users: the status text, or the
	// raw body for organization 500s.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: %s (%d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s (%d): %s", e.Op, e.Kind, e.StatusCode, e.Detail)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// Message renders err the way the mobile client showed it to users. A nil
// error renders as "".
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmailTaken) {
		return emailTakenMessage
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return ErrorPrefix + " " + err.Error()
	}
	switch apiErr.Kind {
	case KindServer:
		return "Error en el servidor: " + apiErr.Detail
	case KindRejected:
		return ErrorPrefix + " " + apiErr.Detail
	default:
		if apiErr.Err != nil {
			return ErrorPrefix + " " + apiErr.Err.Error()
		}
		return ErrorPrefix + " " + apiErr.Detail
	}
}
