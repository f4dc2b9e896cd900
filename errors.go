package smsdrop

import (
	"errors"
	"fmt"

	"github.com/smsdrop/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrMissingCredentials is returned when no username or password
	// is provided.
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrClientClosed is returned when operations are attempted on a
	// closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrInvalidCredentials is returned when the provider rejects the
	// configured username/password pair.
	ErrInvalidCredentials = errors.New("credentials are incorrect")

	// ErrNoRecipients is returned when a message carries an empty
	// recipient list.
	ErrNoRecipients = errors.New("message has no recipients")

	// ErrCustomSenderNotAllowed is returned when a sender alias is set
	// on a basic-tier (SI) message.
	ErrCustomSenderNotAllowed = errors.New("custom sender is not allowed for basic tier messages")

	// ErrInvalidPhoneNumber is returned when a raw phone number cannot
	// be normalized to international form.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")

	// ErrInvalidOrderID is returned when the provider rejects an order id.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidInput is returned when the provider rejects the request
	// payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidMessageType is returned for an unknown message type.
	ErrInvalidMessageType = errors.New("invalid message type")

	// ErrNotFound is returned when the provider does not know the
	// requested order id.
	ErrNotFound = errors.New("order not found")
)

// InvalidRecipientTypeError reports a destination whose variant does not
// match the chosen send mode: group sends require Group entries,
// individual and parameterized sends require Recipient entries.
type InvalidRecipientTypeError struct {
	Target   string // identifier of the offending entry
	Expected string // "recipient" or "group"
}

func (e *InvalidRecipientTypeError) Error() string {
	return fmt.Sprintf("recipient %q has the wrong type: expected a %s", e.Target, e.Expected)
}

// MissingParameterError reports a recipient that lacks a template
// variable referenced by the message body.
type MissingParameterError struct {
	Recipient string
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("recipient %q is missing parameter %q", e.Recipient, e.Parameter)
}

// ProviderError represents an error response from the provider. Its
// status and result codes map onto the package sentinels, so callers can
// branch with errors.Is; responses that match no sentinel surface as a
// bare ProviderError carrying the raw body.
type ProviderError struct {
	StatusCode int
	Result     string // provider result code, when the body was parseable
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Result != "" {
		return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Result)
	}
	if e.Body != "" {
		return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("provider error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *ProviderError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrInvalidCredentials
	case 404:
		return target == ErrNotFound
	case 400:
		switch e.Result {
		case api.ResultInvalidOrderID:
			return target == ErrInvalidOrderID
		case api.ResultInvalidMessageType:
			return target == ErrInvalidMessageType
		}
		return target == ErrInvalidInput
	}
	return false
}

// wrapError converts internal API errors to public errors so that
// errors.Is() checks work with the package sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, api.ErrBadCredentials) {
		return ErrInvalidCredentials
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			StatusCode: apiErr.StatusCode,
			Result:     apiErr.Result,
			Body:       apiErr.Body,
		}
	}

	return err
}
