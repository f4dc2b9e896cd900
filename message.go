package smsdrop

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// MessageType is the provider service tier for a send.
type MessageType string

const (
	// TypeGP is the premium tier with delivery report.
	TypeGP MessageType = "GP"
	// TypeTI is the standard tier with delivery warranty.
	TypeTI MessageType = "TI"
	// TypeSI is the basic tier: no delivery warranty, 160-character
	// body limit, and no custom sender.
	TypeSI MessageType = "SI"
)

// ParseMessageType converts a configuration string into a MessageType.
// Returns an error wrapping ErrInvalidMessageType for unknown values.
func ParseMessageType(s string) (MessageType, error) {
	switch t := MessageType(s); t {
	case TypeGP, TypeTI, TypeSI:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMessageType, s)
}

// siBodyLimit is the provider's body length limit for basic-tier sends.
const siBodyLimit = 160

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Message is an outbound SMS. The body may contain zero or more
// placeholders of the form ${name}; their presence selects the
// parameterized send path, in which every recipient must carry a
// variable for each placeholder.
//
// Zero values of the optional fields mean "unset": they are left out of
// the wire payload entirely. Type, Sender and Encoding fall back to the
// client's configured defaults when empty.
type Message struct {
	Body       string
	Type       MessageType
	Sender     string
	Recipients []Destination

	// DeliveryTime schedules future delivery; the zero time sends now.
	DeliveryTime time.Time

	// OrderID may be set by the caller for idempotent re-submission.
	// After a successful Send it holds the provider-assigned order id.
	OrderID string

	CampaignName string
	ShortLinkURL string

	// Encoding is a character-encoding hint forwarded verbatim to the
	// provider (e.g. "gsm" or "ucs2").
	Encoding string
}

// HasParameters reports whether the body references at least one
// ${name} placeholder.
func (m *Message) HasParameters() bool {
	return placeholderPattern.MatchString(m.Body)
}

// Placeholders returns the distinct placeholder names referenced by the
// body, in order of first appearance.
func (m *Message) Placeholders() []string {
	matches := placeholderPattern.FindAllStringSubmatch(m.Body, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// HasRecipients reports whether the recipient list is non-empty.
func (m *Message) HasRecipients() bool { return len(m.Recipients) > 0 }

// HasSender reports whether a sender alias is set.
func (m *Message) HasSender() bool { return m.Sender != "" }

// HasCampaignName reports whether a campaign name is set.
func (m *Message) HasCampaignName() bool { return m.CampaignName != "" }

// HasShortLinkURL reports whether a short link URL is set.
func (m *Message) HasShortLinkURL() bool { return m.ShortLinkURL != "" }

// HasDeliveryTime reports whether a scheduled delivery time is set.
func (m *Message) HasDeliveryTime() bool { return !m.DeliveryTime.IsZero() }

// IsEmptyOrderID reports whether no order id is set yet.
func (m *Message) IsEmptyOrderID() bool { return m.OrderID == "" }

// NewOrderID returns a fresh caller-side order id suitable for idempotent
// re-submission of a Message.
func NewOrderID() string {
	return uuid.NewString()
}
