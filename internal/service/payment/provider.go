package payment

import "net/http"

// PledgeIntent is a created payment intent for a goal's pledge. The
// client secret is handed to the frontend to confirm the payment.
type PledgeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int    `json:"amount"` // whole dollars
}

// Provider defines the interface that all payment providers must implement
type Provider interface {
	// CreatePledgeIntent creates a payment intent for the pledge amount
	// (whole dollars) with the given metadata attached
	CreatePledgeIntent(amountUSD int, metadata map[string]string) (*PledgeIntent, error)

	// HandleWebhook processes webhook events from the payment provider
	HandleWebhook(payload []byte, headers http.Header) error

	// Name returns the provider name (e.g., "stripe")
	Name() string
}
