package smsdrop

import (
	"fmt"
	"unicode/utf8"

	"github.com/smsdrop/client-go/internal/api"
)

const (
	expectRecipient = "recipient"
	expectGroup     = "group"
)

// buildSendRequest validates msg against the chosen send mode and
// produces the wire payload. All validation happens before
// serialization; an invalid message never yields a partial payload.
//
// The parameterized and plain branches are mutually exclusive: a payload
// is either a flat list of plain identifiers under "recipient" or a
// map-forced list of attribute maps under "recipients", never mixed.
func buildSendRequest(msg *Message, groupSend bool, sc sendConfig) (*api.SendRequest, error) {
	if !msg.HasRecipients() {
		return nil, ErrNoRecipients
	}

	req := &api.SendRequest{
		MessageType:            string(msg.Type),
		Message:                msg.Body,
		AllowInvalidRecipients: sc.allowInvalidRecipients,
		ReturnCredits:          sc.returnCredits,
		ReturnRemaining:        sc.returnRemaining,
		Encoding:               msg.Encoding,
	}

	if msg.HasParameters() {
		names := msg.Placeholders()
		attrs := make(api.ParamRecipients, 0, len(msg.Recipients))
		for _, dest := range msg.Recipients {
			recipient, ok := dest.(Recipient)
			if !ok {
				return nil, &InvalidRecipientTypeError{Target: dest.Target(), Expected: expectRecipient}
			}
			for _, name := range names {
				if !recipient.HasVariable(name) {
					return nil, &MissingParameterError{Recipient: recipient.Number, Parameter: name}
				}
			}
			attrs = append(attrs, recipient.Attributes())
		}
		req.Recipients = attrs
	} else {
		targets := make([]string, 0, len(msg.Recipients))
		for _, dest := range msg.Recipients {
			switch dest.(type) {
			case Group:
				if !groupSend {
					return nil, &InvalidRecipientTypeError{Target: dest.Target(), Expected: expectRecipient}
				}
			case Recipient:
				if groupSend {
					return nil, &InvalidRecipientTypeError{Target: dest.Target(), Expected: expectGroup}
				}
			default:
				expected := expectRecipient
				if groupSend {
					expected = expectGroup
				}
				return nil, &InvalidRecipientTypeError{Target: dest.Target(), Expected: expected}
			}
			targets = append(targets, dest.Target())
		}
		req.Recipient = targets
	}

	if msg.HasSender() {
		if msg.Type == TypeSI {
			return nil, ErrCustomSenderNotAllowed
		}
		req.Sender = msg.Sender
	}

	if msg.Type == TypeSI && utf8.RuneCountInString(msg.Body) > siBodyLimit {
		return nil, fmt.Errorf("%w: basic tier body exceeds %d characters", ErrInvalidInput, siBodyLimit)
	}

	if msg.HasDeliveryTime() {
		req.ScheduledDeliveryTime = api.FormatTimestamp(msg.DeliveryTime)
	}
	if !msg.IsEmptyOrderID() {
		req.OrderID = msg.OrderID
	}
	if msg.HasCampaignName() {
		req.CampaignName = msg.CampaignName
	}
	if msg.HasShortLinkURL() {
		req.ShortLinkURL = msg.ShortLinkURL
	}

	return req, nil
}
