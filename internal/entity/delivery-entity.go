package entity

import "time"

type DeliveryKind string

const (
	DeliveryInvitation   DeliveryKind = "invitation"
	DeliveryVerification DeliveryKind = "verification"
)

// DeliveryJob ist eine ausgehende E-Mail in invitation:queue. Der Inhalt ist bereits gerendert.
type DeliveryJob struct {
	ID         string       `json:"id"`
	Kind       DeliveryKind `json:"kind"`
	Token      string       `json:"token,omitempty"`
	Recipient  string       `json:"recipient"`
	Subject    string       `json:"subject"`
	Content    string       `json:"content"`
	EnqueuedAt time.Time    `json:"enqueuedAt"`
}

// DeliveryState beschreibt den Lebenszyklus eines Jobs im Dispatcher.
type DeliveryState string

const (
	QUEUED  DeliveryState = "QUEUED"
	SENDING DeliveryState = "SENDING"
	SENT    DeliveryState = "SENT"
	// DELIVERY_FAILED ist terminal; der Job liegt danach im Dead-Letter-Sink.
	DELIVERY_FAILED DeliveryState = "FAILED"
)

// DeadLetter ist ein Eintrag in invitation:queue:dead. Wird nie automatisch erneut versucht.
type DeadLetter struct {
	Job      DeliveryJob `json:"job"`
	Reason   string      `json:"reason"`
	Attempts int         `json:"attempts"`
	FailedAt time.Time   `json:"failedAt"`
}
