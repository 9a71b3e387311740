package entity

import "time"

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment tracks one gateway transaction for a booking. TxRef is the
// reference we hand to the gateway; GatewayRef is whatever identifier the
// gateway assigns on its side.
type Payment struct {
	ID         int64         `json:"id" db:"id"`
	BookingID  int64         `json:"booking_id" db:"booking_id"`
	Amount     float64       `json:"amount" db:"amount"`
	Currency   string        `json:"currency" db:"currency"`
	TxRef      string        `json:"tx_ref" db:"tx_ref"`
	GatewayRef string        `json:"gateway_ref,omitempty" db:"gateway_ref"`
	Status     PaymentStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}
