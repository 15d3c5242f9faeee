package service

import (
	"context"
	"testing"
	"time"

	"strategy-buddy-be/internal/config"
	"strategy-buddy-be/internal/entity"
	"strategy-buddy-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGateMatrix(t *testing.T) {
	active := &entity.Subscription{Status: entity.SubscriptionStatusActive}
	canceled := &entity.Subscription{Status: entity.SubscriptionStatusCanceled}

	tests := []struct {
		name          string
		hasSession    bool
		subscription  *entity.Subscription
		isTestAccount bool
		bypass        bool
		want          string
	}{
		{"no session", false, nil, false, false, AccessStateSignedOut},
		{"session without subscription", true, nil, false, false, AccessStateNeedsSubscription},
		{"session with canceled subscription", true, canceled, false, false, AccessStateNeedsSubscription},
		{"session with active subscription", true, active, false, false, AccessStateGranted},
		{"test account without subscription", true, nil, true, false, AccessStateGranted},
		{"bypass without session", false, nil, false, true, AccessStateGranted},
		{"bypass overrides everything", true, canceled, false, true, AccessStateGranted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.hasSession, tt.subscription, tt.isTestAccount, tt.bypass)
			assert.Equal(t, tt.want, got)
		})
	}
}

// fakeSubscriptionRepo returns one canned subscription for every lookup.
type fakeSubscriptionRepo struct {
	subscription *entity.Subscription
	upserts      []*entity.Subscription
}

func (f *fakeSubscriptionRepo) Upsert(ctx context.Context, subscription *entity.Subscription) error {
	f.upserts = append(f.upserts, subscription)
	return nil
}

func (f *fakeSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	return f.subscription, nil
}

func TestGateReadsSubscription(t *testing.T) {
	repo := &fakeSubscriptionRepo{subscription: &entity.Subscription{
		Status:    entity.SubscriptionStatusActive,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}}
	svc := NewAccessService(repo, nil, config.AccessConfig{}, nopLogger{})

	res, err := svc.Gate(context.Background(), uuid.New(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessStateGranted, res.State)
	assert.Equal(t, "user@example.com", res.Email)
}

func TestGateAnonymous(t *testing.T) {
	svc := NewAccessService(&fakeSubscriptionRepo{}, nil, config.AccessConfig{}, nopLogger{})

	res, err := svc.Gate(context.Background(), uuid.Nil, "")
	require.NoError(t, err)
	assert.Equal(t, AccessStateSignedOut, res.State)
}

func TestGateTestEmailCaseInsensitive(t *testing.T) {
	cfg := config.AccessConfig{TestEmails: []string{"Tester@Example.com"}}
	svc := NewAccessService(&fakeSubscriptionRepo{}, nil, cfg, nopLogger{})

	res, err := svc.Gate(context.Background(), uuid.New(), "tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessStateGranted, res.State)
}

func TestGateAuthBypass(t *testing.T) {
	cfg := config.AccessConfig{AuthBypass: true}
	svc := NewAccessService(&fakeSubscriptionRepo{}, nil, cfg, nopLogger{})

	res, err := svc.Gate(context.Background(), uuid.Nil, "")
	require.NoError(t, err)
	assert.Equal(t, AccessStateGranted, res.State)
}
