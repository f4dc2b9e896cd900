package smsdrop

import "time"

// SendResult is the provider's acknowledgement of a submitted send.
// RemainingMessages and credit counts are populated only when requested
// via WithReturnRemaining / WithReturnCredits.
type SendResult struct {
	OrderID           string
	Result            string
	TotalSent         int
	RemainingMessages int
	UsedCredits       float64
}

// RecipientDeliveryState is the delivery status of a single recipient of
// a submitted send.
type RecipientDeliveryState struct {
	Recipient string
	Status    string
	// DeliveryDate is the zero time until the provider reports delivery.
	DeliveryDate time.Time
}

// Delivered reports whether the provider has recorded a delivery date.
func (s RecipientDeliveryState) Delivered() bool {
	return !s.DeliveryDate.IsZero()
}

// HistoryEntry is one submitted send in the account's history.
type HistoryEntry struct {
	OrderID       string
	CreateTime    time.Time
	Type          MessageType
	NumRecipients int
	Sender        string
	// ScheduleTime is the zero time for sends that were not scheduled.
	ScheduleTime time.Time
}
