package dto

type AccessStateResponse struct {
	State string `json:"state"` // "signed_out" | "needs_subscription" | "granted"
	Email string `json:"email,omitempty"`
}
