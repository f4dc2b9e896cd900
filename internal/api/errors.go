package api

import (
	"errors"
	"fmt"
)

// ErrBadCredentials indicates the provider rejected the login
// username/password pair.
var ErrBadCredentials = errors.New("credentials are incorrect")

// Provider result codes carried in error response bodies.
const (
	ResultInvalidOrderID     = "INVALID_ORDER_ID"
	ResultInvalidMessageType = "INVALID_MESSAGE_TYPE"
)

// Error represents an HTTP error response from the provider.
type Error struct {
	StatusCode int
	Result     string // provider result code, when the body was parseable
	Body       string
}

func (e *Error) Error() string {
	if e.Result != "" {
		return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Result)
	}
	if e.Body != "" {
		return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("provider error %d", e.StatusCode)
}
