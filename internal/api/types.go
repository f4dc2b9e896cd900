package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ParamRecipients is the recipient list of a parameterized send. The
// provider requires a JSON object keyed by position, never an array, so
// a single-recipient payload still encodes as {"0":{...}}. Entries keep
// their input order.
type ParamRecipients []map[string]string

// MarshalJSON implements the map-forced object encoding.
func (p ParamRecipients) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attrs := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i)))
		buf.WriteByte(':')
		entry, err := json.Marshal(attrs)
		if err != nil {
			return nil, err
		}
		buf.Write(entry)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SendRequest is the wire payload for the send endpoints. Exactly one of
// Recipient (plain and group sends) or Recipients (parameterized sends)
// is set.
type SendRequest struct {
	MessageType            string          `json:"message_type"`
	Message                string          `json:"message"`
	Recipient              []string        `json:"recipient,omitempty"`
	Recipients             ParamRecipients `json:"recipients,omitempty"`
	Sender                 string          `json:"sender,omitempty"`
	ScheduledDeliveryTime  string          `json:"scheduled_delivery_time,omitempty"`
	OrderID                string          `json:"order_id,omitempty"`
	CampaignName           string          `json:"campaign_name,omitempty"`
	ShortLinkURL           string          `json:"short_link_url,omitempty"`
	AllowInvalidRecipients bool            `json:"allowInvalidRecipients"`
	ReturnCredits          bool            `json:"returnCredits"`
	ReturnRemaining        bool            `json:"returnRemaining"`
	Encoding               string          `json:"encoding"`
}

// SendResponse is the provider's acknowledgement of a send.
type SendResponse struct {
	Result            string  `json:"result"`
	OrderID           string  `json:"order_id"`
	TotalSent         int     `json:"total_sent"`
	RemainingMessages int     `json:"remaining_messages"`
	UsedCredits       float64 `json:"used_credits"`
}

// RecipientStatus is one recipient's entry in a status response.
// DeliveryDate is a 14-digit timestamp, empty until delivered.
type RecipientStatus struct {
	Destination  string `json:"destination"`
	Status       string `json:"status"`
	DeliveryDate string `json:"delivery_date,omitempty"`
}

// StatusResponse is the GET /sms/{order_id} response.
type StatusResponse struct {
	Result     string            `json:"result"`
	Recipients []RecipientStatus `json:"recipients"`
}

// HistoryEntry is one send in the GET /smshistory response.
// CreateTime and ScheduleTime are 14-digit timestamps; ScheduleTime is
// empty for unscheduled sends.
type HistoryEntry struct {
	OrderID       string `json:"order_id"`
	CreateTime    string `json:"create_time"`
	MessageType   string `json:"message_type"`
	NumRecipients int    `json:"num_recipients"`
	Sender        string `json:"sender"`
	ScheduleTime  string `json:"schedule_time,omitempty"`
}

// HistoryResponse is the GET /smshistory response.
type HistoryResponse struct {
	Result     string         `json:"result"`
	SMSHistory []HistoryEntry `json:"smshistory"`
}
