package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
)

// Subscription mirrors the billing collaborator's view of one user. Written
// only by the webhook reconciler, read by the access gate.
type Subscription struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Status    string
	PriceId   string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == SubscriptionStatusActive
}
