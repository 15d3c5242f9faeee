package dto

import "time"

type CreateCheckoutSessionRequest struct {
	SuccessPath string `json:"success_path,omitempty"`
	CancelPath  string `json:"cancel_path,omitempty"`
}

type CreateCheckoutSessionResponse struct {
	SessionId   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

type SubscriptionResponse struct {
	Status    string    `json:"status"`
	PriceId   string    `json:"price_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Active    bool      `json:"active"`
}
