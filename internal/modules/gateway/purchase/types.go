package purchase

import "time"

// purchaseEvent is the payment-provider payload for a completed purchase.
// EventID is the provider's delivery id and doubles as our idempotency key.
type purchaseEvent struct {
	EventID      string    `json:"event_id"`
	Email        string    `json:"email"`
	CustomerName string    `json:"customer_name"`
	Amount       int64     `json:"amount"` // minor currency units
	Currency     string    `json:"currency"`
	PurchasedAt  time.Time `json:"purchased_at"`
}

const signatureHeader = "X-Pay-Signature"
