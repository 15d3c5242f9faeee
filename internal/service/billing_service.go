package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"strategy-buddy-be/internal/config"
	"strategy-buddy-be/internal/dto"
	"strategy-buddy-be/internal/entity"
	"strategy-buddy-be/internal/pkg/logger"
	"strategy-buddy-be/internal/pkg/mailer"
	"strategy-buddy-be/internal/repository/contract"
	"strategy-buddy-be/internal/repository/specification"
	"strategy-buddy-be/pkg/events"
	pktNats "strategy-buddy-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	stripesub "github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"
)

type IBillingService interface {
	CreateCheckoutSession(ctx context.Context, userId uuid.UUID, email string, request *dto.CreateCheckoutSessionRequest) (*dto.CreateCheckoutSessionResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	GetSubscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionResponse, error)
}

type billingService struct {
	subscriptionRepo contract.SubscriptionRepository
	billingEventRepo contract.BillingEventRepository
	eventPublisher   *pktNats.Publisher
	emailService     mailer.IEmailService
	cfg              config.StripeConfig
	clientURL        string
	logger           logger.ILogger
}

func NewBillingService(
	subscriptionRepo contract.SubscriptionRepository,
	billingEventRepo contract.BillingEventRepository,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	cfg config.StripeConfig,
	clientURL string,
	log logger.ILogger,
) IBillingService {
	return &billingService{
		subscriptionRepo: subscriptionRepo,
		billingEventRepo: billingEventRepo,
		eventPublisher:   eventPublisher,
		emailService:     emailService,
		cfg:              cfg,
		clientURL:        clientURL,
		logger:           log,
	}
}

func (bs *billingService) CreateCheckoutSession(ctx context.Context, userId uuid.UUID, email string, request *dto.CreateCheckoutSessionRequest) (*dto.CreateCheckoutSessionResponse, error) {
	successPath := request.SuccessPath
	if successPath == "" {
		successPath = "/chat?checkout=success"
	}
	cancelPath := request.CancelPath
	if cancelPath == "" {
		cancelPath = "/subscribe?checkout=cancelled"
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(bs.cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(bs.clientURL + successPath),
		CancelURL:         stripe.String(bs.clientURL + cancelPath),
		ClientReferenceID: stripe.String(userId.String()),
		CustomerEmail:     stripe.String(email),
		// Subscription lifecycle events don't carry client_reference_id, so
		// the user id is pinned to the subscription's own metadata too.
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": userId.String(),
			},
		},
	}

	session, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	bs.logger.Info("BILLING", "Checkout session created", map[string]interface{}{
		"user_id":    userId,
		"session_id": session.ID,
	})

	return &dto.CreateCheckoutSessionResponse{
		SessionId:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

func (bs *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	// Deliveries carry whatever API version the endpoint is pinned to; only
	// the signature decides authenticity.
	event, err := webhook.ConstructEventWithOptions(payload, signature, bs.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	processed, err := bs.billingEventRepo.Exists(ctx, event.ID)
	if err != nil {
		return err
	}
	if processed {
		bs.logger.Info("BILLING", "Duplicate webhook event skipped", map[string]interface{}{
			"event_id": event.ID,
		})
		return nil
	}

	switch event.Type {
	case "checkout.session.completed":
		err = bs.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.updated", "customer.subscription.deleted":
		err = bs.handleSubscriptionChanged(ctx, event)
	default:
		bs.logger.Debug("BILLING", "Unhandled webhook event type", map[string]interface{}{
			"event_id": event.ID,
			"type":     event.Type,
		})
	}
	if err != nil {
		return err
	}

	return bs.billingEventRepo.Record(ctx, event.ID, string(event.Type), payload)
}

func (bs *billingService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("unmarshal checkout session: %w", err)
	}

	userId, err := uuid.Parse(session.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("checkout session %s carries no usable client_reference_id: %w", session.ID, err)
	}
	if session.Subscription == nil {
		return fmt.Errorf("checkout session %s has no subscription", session.ID)
	}

	sub, err := stripesub.Get(session.Subscription.ID, nil)
	if err != nil {
		return fmt.Errorf("fetch subscription %s: %w", session.Subscription.ID, err)
	}

	subscription := bs.toEntity(userId, sub)
	if err := bs.subscriptionRepo.Upsert(ctx, subscription); err != nil {
		return err
	}

	bs.notifyActivated(ctx, userId, session.CustomerDetails, subscription)
	return nil
}

func (bs *billingService) handleSubscriptionChanged(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("unmarshal subscription: %w", err)
	}

	userId, err := uuid.Parse(sub.Metadata["user_id"])
	if err != nil {
		// Subscription created outside our checkout flow; nothing to map it to.
		bs.logger.Warn("BILLING", "Subscription event without user_id metadata", map[string]interface{}{
			"event_id":        event.ID,
			"subscription_id": sub.ID,
		})
		return nil
	}

	return bs.subscriptionRepo.Upsert(ctx, bs.toEntity(userId, &sub))
}

func (bs *billingService) toEntity(userId uuid.UUID, sub *stripe.Subscription) *entity.Subscription {
	priceId := ""
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceId = sub.Items.Data[0].Price.ID
	}
	return &entity.Subscription{
		UserId:    userId,
		Status:    mapSubscriptionStatus(sub.Status),
		PriceId:   priceId,
		ExpiresAt: time.Unix(sub.CurrentPeriodEnd, 0),
	}
}

func mapSubscriptionStatus(status stripe.SubscriptionStatus) string {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return entity.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue:
		return entity.SubscriptionStatusPastDue
	default:
		return entity.SubscriptionStatusCanceled
	}
}

// notifyActivated emits the bus event and the receipt email. Both are
// best-effort; the webhook must still be acknowledged.
func (bs *billingService) notifyActivated(ctx context.Context, userId uuid.UUID, customer *stripe.CheckoutSessionCustomerDetails, subscription *entity.Subscription) {
	if bs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "SUBSCRIPTION_ACTIVATED",
			Data: map[string]interface{}{
				"user_id":    userId.String(),
				"price_id":   subscription.PriceId,
				"expires_at": subscription.ExpiresAt.Format(time.RFC3339),
			},
			OccurredAt: time.Now(),
		}
		if err := bs.eventPublisher.Publish(ctx, evt); err != nil {
			bs.logger.Warn("BILLING", "Failed to publish activation event", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
		}
	}

	if bs.emailService != nil && customer != nil && customer.Email != "" {
		go func(email, expires string) {
			if err := bs.emailService.SendSubscriptionReceipt(email, "Strategy Buddy Pro", expires); err != nil {
				bs.logger.Warn("BILLING", "Failed to send receipt email", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}(customer.Email, subscription.ExpiresAt.Format("January 2, 2006"))
	}
}

func (bs *billingService) GetSubscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionResponse, error) {
	subscription, err := bs.subscriptionRepo.FindOne(ctx, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return &dto.SubscriptionResponse{Status: "none", Active: false}, nil
	}
	return &dto.SubscriptionResponse{
		Status:    subscription.Status,
		PriceId:   subscription.PriceId,
		ExpiresAt: subscription.ExpiresAt,
		Active:    subscription.IsActive(),
	}, nil
}
