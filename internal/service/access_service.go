package service

import (
	"context"
	"strings"

	"strategy-buddy-be/internal/config"
	"strategy-buddy-be/internal/dto"
	"strategy-buddy-be/internal/entity"
	"strategy-buddy-be/internal/pkg/logger"
	"strategy-buddy-be/internal/repository/contract"
	"strategy-buddy-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
)

const (
	AccessStateSignedOut         = "signed_out"
	AccessStateNeedsSubscription = "needs_subscription"
	AccessStateGranted           = "granted"
)

type IAccessService interface {
	// Gate resolves the caller's access state from their verified session and
	// subscription row.
	Gate(ctx context.Context, userId uuid.UUID, email string) (*dto.AccessStateResponse, error)
	SignOut(ctx context.Context, token string) error
}

type accessService struct {
	subscriptionRepo contract.SubscriptionRepository
	authClient       gotrue.Client
	cfg              config.AccessConfig
	logger           logger.ILogger
}

func NewAccessService(
	subscriptionRepo contract.SubscriptionRepository,
	authClient gotrue.Client,
	cfg config.AccessConfig,
	log logger.ILogger,
) IAccessService {
	return &accessService{
		subscriptionRepo: subscriptionRepo,
		authClient:       authClient,
		cfg:              cfg,
		logger:           log,
	}
}

// Resolve is the pure gate decision. Test accounts skip the subscription
// check; AuthBypass short-circuits everything.
func Resolve(hasSession bool, subscription *entity.Subscription, isTestAccount bool, bypass bool) string {
	if bypass {
		return AccessStateGranted
	}
	if !hasSession {
		return AccessStateSignedOut
	}
	if isTestAccount {
		return AccessStateGranted
	}
	if !subscription.IsActive() {
		return AccessStateNeedsSubscription
	}
	return AccessStateGranted
}

func (as *accessService) Gate(ctx context.Context, userId uuid.UUID, email string) (*dto.AccessStateResponse, error) {
	hasSession := userId != uuid.Nil

	var subscription *entity.Subscription
	if hasSession && !as.cfg.AuthBypass && !as.isTestAccount(email) {
		found, err := as.subscriptionRepo.FindOne(ctx, specification.ByUserID{UserID: userId})
		if err != nil {
			return nil, err
		}
		subscription = found
	}

	state := Resolve(hasSession, subscription, as.isTestAccount(email), as.cfg.AuthBypass)
	return &dto.AccessStateResponse{
		State: state,
		Email: email,
	}, nil
}

func (as *accessService) SignOut(ctx context.Context, token string) error {
	if as.authClient == nil {
		return nil
	}
	if err := as.authClient.WithToken(token).Logout(); err != nil {
		as.logger.Warn("ACCESS", "Identity logout failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

func (as *accessService) isTestAccount(email string) bool {
	if email == "" {
		return false
	}
	for _, candidate := range as.cfg.TestEmails {
		if strings.EqualFold(candidate, email) {
			return true
		}
	}
	return false
}
