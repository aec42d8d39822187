package company

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workaccess/internal/storage"
	"workaccess/pkg/apperrors"
	"workaccess/pkg/requestcontext"
)

func newService() *Service {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewService(storage.NewInMemoryStore(), logger)
}

func validRequest() RegisterRequest {
	return RegisterRequest{
		Name:          "Acme Corp",
		CompanyID:     "Acme Corp!",
		AdminEmail:    "Boss@Acme.example",
		AdminPassword: "pw",
	}
}

func TestProfileDefaultsWhenMissing(t *testing.T) {
	svc := newService()
	p, err := svc.Profile(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", p.CompanyID)
	assert.Equal(t, SubscriptionNone, p.SubscriptionStatus)
	assert.Empty(t, p.TrialEnd)
}

func TestRegisterSlugifiesAndGrantsTrial(t *testing.T) {
	svc := newService()
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	result, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "acme-corp", result.CompanyID)
	assert.Equal(t, "2026-06-01T10:00:00.000Z", result.TrialStart)
	assert.Equal(t, "2026-06-15T10:00:00.000Z", result.TrialEnd)

	p, err := svc.Profile(ctx, "acme-corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", p.Name)
	assert.Equal(t, "boss@acme.example", p.Email)
	assert.Equal(t, "Boss", p.ContactName)
	assert.Equal(t, result.TrialEnd, p.TrialEnd)
}

func TestRegisterConflict(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRequest())
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestRegisterValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for _, tt := range []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing name", func(r *RegisterRequest) { r.Name = "" }},
		{"missing companyId", func(r *RegisterRequest) { r.CompanyID = "" }},
		{"missing adminEmail", func(r *RegisterRequest) { r.AdminEmail = "" }},
		{"missing adminPassword", func(r *RegisterRequest) { r.AdminPassword = "" }},
		{"unusable companyId", func(r *RegisterRequest) { r.CompanyID = "***" }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := svc.Register(ctx, req)
			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code)
		})
	}
}

func TestMutateReturnsSnapshots(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	before, after, err := svc.Mutate(ctx, "acme", func(p *Profile) {
		p.SubscriptionStatus = SubscriptionActive
		p.Plan = "pro"
	})
	require.NoError(t, err)
	assert.Equal(t, SubscriptionNone, before.SubscriptionStatus)
	assert.Equal(t, SubscriptionActive, after.SubscriptionStatus)
	assert.Equal(t, "pro", after.Plan)

	p, err := svc.Profile(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, SubscriptionActive, p.SubscriptionStatus)
}

func TestSubscriptionAndTrialState(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name      string
		profile   Profile
		subActive bool
		trialOver bool
		locked    bool
	}{
		{
			name:      "no trial configured",
			profile:   Profile{},
			subActive: false, trialOver: false, locked: false,
		},
		{
			name:      "trial running",
			profile:   Profile{TrialEnd: "2026-06-10T00:00:00.000Z"},
			subActive: false, trialOver: false, locked: false,
		},
		{
			name:      "trial lapsed",
			profile:   Profile{TrialEnd: "2026-05-01T00:00:00.000Z"},
			subActive: false, trialOver: true, locked: true,
		},
		{
			name: "trial lapsed but subscribed",
			profile: Profile{
				TrialEnd:           "2026-05-01T00:00:00.000Z",
				SubscriptionStatus: SubscriptionActive,
				SubscriptionEnd:    now.Add(30 * day).Format(time.RFC3339),
			},
			subActive: true, trialOver: true, locked: false,
		},
		{
			name: "subscription expired",
			profile: Profile{
				TrialEnd:           "2026-05-01T00:00:00.000Z",
				SubscriptionStatus: SubscriptionActive,
				SubscriptionEnd:    "2026-05-20T00:00:00.000Z",
			},
			subActive: false, trialOver: true, locked: true,
		},
		{
			name: "active status without end date is not active",
			profile: Profile{
				SubscriptionStatus: SubscriptionActive,
			},
			subActive: false, trialOver: false, locked: false,
		},
		{
			name:      "garbage trial end behaves as unset",
			profile:   Profile{TrialEnd: "not-a-date"},
			subActive: false, trialOver: false, locked: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.subActive, tt.profile.SubscriptionActiveAt(now))
			assert.Equal(t, tt.trialOver, tt.profile.TrialExpiredAt(now))
			assert.Equal(t, tt.locked, tt.profile.LockedAt(now))
		})
	}
}
