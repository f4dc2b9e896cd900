package smsdrop

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// Destination is a send target: either an individual Recipient or a
// provider-side contact Group. The set is closed; a message's recipient
// list must be all-Recipient or all-Group, never mixed.
type Destination interface {
	// Target returns the plain identifier (phone number or group name)
	// used for non-parameterized sends.
	Target() string

	isDestination()
}

// Recipient is an individual phone-number destination. Variables carries
// named template values for parameterized sends; a recipient used in a
// parameterized send must supply every placeholder name referenced by the
// message body.
type Recipient struct {
	Number    string
	Variables map[string]string
}

// Target returns the recipient's phone number.
func (r Recipient) Target() string { return r.Number }

func (r Recipient) isDestination() {}

// HasVariable reports whether the recipient carries a value for name.
func (r Recipient) HasVariable(name string) bool {
	_, ok := r.Variables[name]
	return ok
}

// Attributes returns the full attribute map sent for parameterized sends:
// the phone number plus every template variable.
func (r Recipient) Attributes() map[string]string {
	attrs := make(map[string]string, len(r.Variables)+1)
	attrs["number"] = r.Number
	for name, value := range r.Variables {
		attrs[name] = value
	}
	return attrs
}

// Group names a provider-side contact group. Groups carry no template
// variables and cannot be used in parameterized sends.
type Group struct {
	Name string
}

// Target returns the group name.
func (g Group) Target() string { return g.Name }

func (g Group) isDestination() {}

// ParseRecipient normalizes raw into canonical E.164 form using the given
// default region (ISO 3166-1 alpha-2, e.g. "IT") and returns a Recipient
// for it. Numbers already in international form may use an empty region.
// Returns an error wrapping ErrInvalidPhoneNumber when raw cannot be
// parsed or is not a valid number.
func ParseRecipient(raw, region string, variables map[string]string) (Recipient, error) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return Recipient{}, fmt.Errorf("%w: %q: %v", ErrInvalidPhoneNumber, raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return Recipient{}, fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, raw)
	}
	return Recipient{
		Number:    phonenumbers.Format(num, phonenumbers.E164),
		Variables: variables,
	}, nil
}
