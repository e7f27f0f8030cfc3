package rearm

import "github.com/ansel1/merry"

// An ErrorCode classifies a terminal outcome.  Codes are checked in
// order: a connection failure masks a status failure, which masks a
// body-decode failure.
type ErrorCode int

const (
	// ErrCodeNone means the outcome classified as success.
	ErrCodeNone ErrorCode = iota
	// ErrCodeConnection means no response was received at all: the
	// status is zero or unset.
	ErrCodeConnection
	// ErrCodeHTTPStatus means a response arrived with a status
	// outside [200,300).
	ErrCodeHTTPStatus
	// ErrCodeBodyType means the status was 2XX but the body failed
	// to decode under a non-text response kind.
	ErrCodeBodyType
)

var errorCodeNames = []string{
	"None",
	"Connection",
	"HTTPStatus",
	"BodyType",
}

// String returns the name of the error code.
func (e ErrorCode) String() string {
	if e < ErrCodeNone || e > ErrCodeBodyType {
		return "Unknown"
	}
	return errorCodeNames[int(e)]
}

// Sentinel classification errors.  Err returns derivatives of these,
// so callers can test the cause with merry.Is.
var (
	// ErrConnection is the cause of Err when no response was
	// received.
	ErrConnection = merry.New("connection failed")

	// ErrUnexpectedBody is the cause of Err when a 2XX body failed
	// to decode under a non-text response kind.
	ErrUnexpectedBody = merry.New("unexpected response body format")
)

// IsSuccess reports whether the current transport state classifies as
// a successful outcome: the status is in [200,300) and, for response
// kinds other than KindText, the transport produced a decoded value.
//
// A 2XX response whose body cannot be decoded under the requested kind
// classifies as a failure, not as a success with a missing body.
//
// Classification is recomputed from transport state on every call; it
// is only meaningful once the controller has reached Done.
func (c *Controller) IsSuccess() bool {
	status := c.transport.Status()
	if status < 200 || status >= 300 {
		return false
	}
	if c.transport.ResponseKind() == KindText {
		return true
	}
	return c.transport.Response() != nil
}

// ErrorState classifies the current transport state into the error
// taxonomy.  The checks run in order; each assumes the prior ones
// passed:
//
//	status zero or unset            -> ErrCodeConnection
//	status outside [200,300)        -> ErrCodeHTTPStatus
//	2XX but body failed to decode   -> ErrCodeBodyType
//	otherwise                       -> ErrCodeNone
//
// A connection failure takes precedence even if a stale decoded
// response is still visible on the transport.
func (c *Controller) ErrorState() ErrorCode {
	status := c.transport.Status()
	switch {
	case status == 0:
		return ErrCodeConnection
	case status < 200 || status >= 300:
		return ErrCodeHTTPStatus
	case c.transport.ResponseKind() != KindText && c.transport.Response() == nil:
		return ErrCodeBodyType
	default:
		return ErrCodeNone
	}
}

// Err returns the classification as an error, or nil when the outcome
// classifies as success.  Status failures carry the HTTP status code,
// retrievable with merry.HTTPCode.
//
// Err never fires on its own; it is an advisory accessor intended to
// be consulted from within a terminal-state handler.
func (c *Controller) Err() error {
	switch c.ErrorState() {
	case ErrCodeConnection:
		return ErrConnection.Here()
	case ErrCodeHTTPStatus:
		status := c.transport.Status()
		return merry.Errorf("HTTP %d", status).WithHTTPCode(status)
	case ErrCodeBodyType:
		return ErrUnexpectedBody.Here()
	default:
		return nil
	}
}
