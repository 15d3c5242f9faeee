package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"strategy-buddy-be/internal/config"
	"strategy-buddy-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const webhookTestSecret = "whsec_test_secret"

type fakeBillingEventRepo struct {
	seen     map[string]bool
	recorded []string
}

func newFakeBillingEventRepo() *fakeBillingEventRepo {
	return &fakeBillingEventRepo{seen: map[string]bool{}}
}

func (f *fakeBillingEventRepo) Exists(ctx context.Context, eventId string) (bool, error) {
	return f.seen[eventId], nil
}

func (f *fakeBillingEventRepo) Record(ctx context.Context, eventId string, eventType string, payload []byte) error {
	f.seen[eventId] = true
	f.recorded = append(f.recorded, eventId)
	return nil
}

func newTestBillingService(subRepo *fakeSubscriptionRepo, eventRepo *fakeBillingEventRepo) IBillingService {
	cfg := config.StripeConfig{
		SecretKey:     "sk_test_x",
		WebhookSecret: webhookTestSecret,
		PriceID:       "price_123",
	}
	return NewBillingService(subRepo, eventRepo, nil, nil, cfg, "http://localhost:5173", nopLogger{})
}

func signedSubscriptionEvent(t *testing.T, eventId, eventType string, userId uuid.UUID, status string, periodEnd time.Time) ([]byte, string) {
	t.Helper()
	payload := fmt.Sprintf(`{
		"id": %q,
		"type": %q,
		"data": {
			"object": {
				"id": "sub_123",
				"status": %q,
				"current_period_end": %d,
				"metadata": {"user_id": %q},
				"items": {"data": [{"price": {"id": "price_123"}}]}
			}
		}
	}`, eventId, eventType, status, periodEnd.Unix(), userId)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  webhookTestSecret,
	})
	return signed.Payload, signed.Header
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc := newTestBillingService(&fakeSubscriptionRepo{}, newFakeBillingEventRepo())

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=bogus")
	require.Error(t, err)
}

func TestHandleWebhookSubscriptionUpdated(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{}
	eventRepo := newFakeBillingEventRepo()
	svc := newTestBillingService(subRepo, eventRepo)

	userId := uuid.New()
	periodEnd := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second)
	payload, header := signedSubscriptionEvent(t, "evt_1", "customer.subscription.updated", userId, "active", periodEnd)

	require.NoError(t, svc.HandleWebhook(context.Background(), payload, header))

	require.Len(t, subRepo.upserts, 1)
	got := subRepo.upserts[0]
	assert.Equal(t, userId, got.UserId)
	assert.Equal(t, entity.SubscriptionStatusActive, got.Status)
	assert.Equal(t, "price_123", got.PriceId)
	assert.Equal(t, periodEnd.Unix(), got.ExpiresAt.Unix())
	assert.Equal(t, []string{"evt_1"}, eventRepo.recorded)
}

func TestHandleWebhookSubscriptionDeleted(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{}
	svc := newTestBillingService(subRepo, newFakeBillingEventRepo())

	userId := uuid.New()
	payload, header := signedSubscriptionEvent(t, "evt_2", "customer.subscription.deleted", userId, "canceled", time.Now())

	require.NoError(t, svc.HandleWebhook(context.Background(), payload, header))

	require.Len(t, subRepo.upserts, 1)
	assert.Equal(t, entity.SubscriptionStatusCanceled, subRepo.upserts[0].Status)
}

func TestHandleWebhookDuplicateEventSkipped(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{}
	eventRepo := newFakeBillingEventRepo()
	eventRepo.seen["evt_3"] = true
	svc := newTestBillingService(subRepo, eventRepo)

	payload, header := signedSubscriptionEvent(t, "evt_3", "customer.subscription.updated", uuid.New(), "active", time.Now())

	require.NoError(t, svc.HandleWebhook(context.Background(), payload, header))
	assert.Empty(t, subRepo.upserts)
	assert.Empty(t, eventRepo.recorded)
}

func TestHandleWebhookSubscriptionWithoutUserMetadata(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{}
	eventRepo := newFakeBillingEventRepo()
	svc := newTestBillingService(subRepo, eventRepo)

	payload := []byte(`{
		"id": "evt_4",
		"type": "customer.subscription.updated",
		"data": {"object": {"id": "sub_999", "status": "active", "metadata": {}}}
	}`)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  webhookTestSecret,
	})

	// Subscriptions created outside our checkout flow are acknowledged but
	// not mapped to anyone.
	require.NoError(t, svc.HandleWebhook(context.Background(), signed.Payload, signed.Header))
	assert.Empty(t, subRepo.upserts)
	assert.Equal(t, []string{"evt_4"}, eventRepo.recorded)
}

func TestHandleWebhookUnhandledTypeStillRecorded(t *testing.T) {
	eventRepo := newFakeBillingEventRepo()
	svc := newTestBillingService(&fakeSubscriptionRepo{}, eventRepo)

	payload := []byte(`{"id": "evt_5", "type": "invoice.paid", "data": {"object": {}}}`)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  webhookTestSecret,
	})

	require.NoError(t, svc.HandleWebhook(context.Background(), signed.Payload, signed.Header))
	assert.Equal(t, []string{"evt_5"}, eventRepo.recorded)
}

func TestHandleWebhookToleratesPinnedAPIVersion(t *testing.T) {
	subRepo := &fakeSubscriptionRepo{}
	eventRepo := newFakeBillingEventRepo()
	svc := newTestBillingService(subRepo, eventRepo)

	userId := uuid.New()
	payload := fmt.Sprintf(`{
		"id": "evt_6",
		"api_version": "2022-11-15",
		"type": "customer.subscription.updated",
		"data": {
			"object": {
				"id": "sub_123",
				"status": "active",
				"current_period_end": %d,
				"metadata": {"user_id": %q},
				"items": {"data": [{"price": {"id": "price_123"}}]}
			}
		}
	}`, time.Now().Add(24*time.Hour).Unix(), userId)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  webhookTestSecret,
	})

	// An endpoint pinned to an older API version still verifies; only the
	// signature decides.
	require.NoError(t, svc.HandleWebhook(context.Background(), signed.Payload, signed.Header))
	require.Len(t, subRepo.upserts, 1)
	assert.Equal(t, userId, subRepo.upserts[0].UserId)
	assert.Equal(t, []string{"evt_6"}, eventRepo.recorded)
}

func TestMapSubscriptionStatus(t *testing.T) {
	assert.Equal(t, entity.SubscriptionStatusActive, mapSubscriptionStatus(stripe.SubscriptionStatusActive))
	assert.Equal(t, entity.SubscriptionStatusActive, mapSubscriptionStatus(stripe.SubscriptionStatusTrialing))
	assert.Equal(t, entity.SubscriptionStatusPastDue, mapSubscriptionStatus(stripe.SubscriptionStatusPastDue))
	assert.Equal(t, entity.SubscriptionStatusCanceled, mapSubscriptionStatus(stripe.SubscriptionStatusCanceled))
	assert.Equal(t, entity.SubscriptionStatusCanceled, mapSubscriptionStatus(stripe.SubscriptionStatusIncomplete))
}

func TestGetSubscriptionNone(t *testing.T) {
	svc := newTestBillingService(&fakeSubscriptionRepo{}, newFakeBillingEventRepo())

	res, err := svc.GetSubscription(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Equal(t, "none", res.Status)
}
