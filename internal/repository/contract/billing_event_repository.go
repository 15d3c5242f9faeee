package contract

import "context"

type BillingEventRepository interface {
	// Exists reports whether a webhook event id has already been processed.
	Exists(ctx context.Context, eventId string) (bool, error)
	Record(ctx context.Context, eventId string, eventType string, payload []byte) error
}
