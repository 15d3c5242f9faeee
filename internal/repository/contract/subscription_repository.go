package contract

import (
	"context"

	"strategy-buddy-be/internal/entity"
	"strategy-buddy-be/internal/repository/specification"
)

type SubscriptionRepository interface {
	// Upsert writes the billing provider's latest view of a user's
	// subscription, keyed by user id.
	Upsert(ctx context.Context, subscription *entity.Subscription) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
}
