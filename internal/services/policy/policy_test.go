package policy

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rackethub/club-organizer/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}
func (m *RepoMock) IncrementSessionCount(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

type OverlayMock struct{ mock.Mock }

func (m *OverlayMock) Resolve(ctx context.Context, identity string) (*models.SimulatorState, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimulatorState), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func fixedEngine(repo Repository, overlay Overlay, now time.Time) *Engine {
	e := NewEngine(repo, overlay, newNoopLogger())
	e.now = func() time.Time { return now }
	return e
}

func TestEngine_GetStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	trialEnd := now.Add(72 * time.Hour)
	expiredTrial := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		profile *models.Profile
		want    models.SubscriptionStatus
	}{
		{
			name: "free profile without trial",
			profile: &models.Profile{
				CurrentTier:         models.TierFree,
				SessionCountMonthly: 1,
			},
			want: models.SubscriptionStatus{
				Tier:                       models.TierFree,
				SessionsUsedThisMonth:      1,
				SessionsRemainingThisMonth: 3,
			},
		},
		{
			name: "free profile with active trial",
			profile: &models.Profile{
				CurrentTier:  models.TierFree,
				TrialEndDate: &trialEnd,
			},
			want: models.SubscriptionStatus{
				Tier:                       models.TierFree,
				IsTrialActive:              true,
				TrialDaysRemaining:         3,
				SessionsRemainingThisMonth: 4,
			},
		},
		{
			name: "expired trial is inactive with zero days",
			profile: &models.Profile{
				CurrentTier:  models.TierFree,
				TrialEndDate: &expiredTrial,
			},
			want: models.SubscriptionStatus{
				Tier:                       models.TierFree,
				SessionsRemainingThisMonth: 4,
			},
		},
		{
			name: "usage over the cap clamps remaining to zero",
			profile: &models.Profile{
				CurrentTier:         models.TierFree,
				SessionCountMonthly: 7,
			},
			want: models.SubscriptionStatus{
				Tier:                  models.TierFree,
				SessionsUsedThisMonth: 7,
			},
		},
		{
			name: "personal tier",
			profile: &models.Profile{
				CurrentTier: models.TierPersonal,
			},
			want: models.SubscriptionStatus{
				Tier:                       models.TierPersonal,
				SessionsRemainingThisMonth: 4,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("GetProfileByUsername", mock.Anything, "alice").Return(tt.profile, nil).Once()

			engine := fixedEngine(repo, nil, now)
			got, err := engine.GetStatus(context.Background(), "alice")
			assert.NoError(t, err)
			assert.Equal(t, tt.want, *got)
			repo.AssertExpectations(t)
		})
	}
}

func TestEngine_GetStatus_ProfileNotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetProfileByUsername", mock.Anything, "ghost").
		Return(nil, models.ErrProfileNotFound).Once()

	engine := fixedEngine(repo, nil, time.Now())
	_, err := engine.GetStatus(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
}

func TestEngine_GetStatus_SimulatedStateSubstitutesWholesale(t *testing.T) {
	repo := new(RepoMock)
	overlay := new(OverlayMock)
	overlay.On("Resolve", mock.Anything, "tester").Return(&models.SimulatorState{
		Enabled: true,
		Subscription: models.SimulatedSubscription{
			Tier:                  models.TierClub,
			IsTrialActive:         false,
			SessionsUsedThisMonth: 2,
		},
	}, nil).Once()

	engine := fixedEngine(repo, overlay, time.Now())
	got, err := engine.GetStatus(context.Background(), "tester")
	assert.NoError(t, err)
	assert.Equal(t, models.TierClub, got.Tier)
	assert.Equal(t, 2, got.SessionsUsedThisMonth)
	// Профиль из базы не читается вовсе.
	repo.AssertNotCalled(t, "GetProfileByUsername", mock.Anything, mock.Anything)
}

func TestEngine_GetStatus_OverlayDisabledFallsBackToProfile(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetProfileByUsername", mock.Anything, "tester").
		Return(&models.Profile{CurrentTier: models.TierFree}, nil).Once()

	overlay := new(OverlayMock)
	overlay.On("Resolve", mock.Anything, "tester").Return(nil, nil).Once()

	engine := fixedEngine(repo, overlay, time.Now())
	got, err := engine.GetStatus(context.Background(), "tester")
	assert.NoError(t, err)
	assert.Equal(t, models.TierFree, got.Tier)
	repo.AssertExpectations(t)
}

func TestFeatureAccessFor(t *testing.T) {
	tests := []struct {
		name   string
		status models.SubscriptionStatus
		want   models.FeatureAccess
	}{
		{
			name: "free with sessions remaining",
			status: models.SubscriptionStatus{
				Tier:                       models.TierFree,
				SessionsUsedThisMonth:      3,
				SessionsRemainingThisMonth: 1,
			},
			want: models.FeatureAccess{
				MaxCourts:           1,
				MaxSessionsPerMonth: models.FreeTierMonthlySessions,
				CanCreateSession:    true,
				MaxClubs:            1,
			},
		},
		{
			name: "free at the cap",
			status: models.SubscriptionStatus{
				Tier:                       models.TierFree,
				SessionsUsedThisMonth:      4,
				SessionsRemainingThisMonth: 0,
			},
			want: models.FeatureAccess{
				MaxCourts:           1,
				MaxSessionsPerMonth: models.FreeTierMonthlySessions,
				CanCreateSession:    false,
				MaxClubs:            1,
			},
		},
		{
			name: "trial beats nominal free tier",
			status: models.SubscriptionStatus{
				Tier:                       models.TierFree,
				IsTrialActive:              true,
				SessionsUsedThisMonth:      4,
				SessionsRemainingThisMonth: 0,
			},
			want: models.FeatureAccess{
				MaxCourts:              models.Unlimited,
				MaxSessionsPerMonth:    models.Unlimited,
				CanCreateSession:       true,
				CanImportExternal:      true,
				MaxClubs:               models.Unlimited,
				CanCreateMultipleClubs: true,
			},
		},
		{
			name:   "personal tier",
			status: models.SubscriptionStatus{Tier: models.TierPersonal},
			want: models.FeatureAccess{
				MaxCourts:              models.Unlimited,
				MaxSessionsPerMonth:    models.Unlimited,
				CanCreateSession:       true,
				CanImportExternal:      true,
				MaxClubs:               models.Unlimited,
				CanCreateMultipleClubs: true,
			},
		},
		{
			name:   "club tier",
			status: models.SubscriptionStatus{Tier: models.TierClub},
			want: models.FeatureAccess{
				MaxCourts:              models.Unlimited,
				MaxSessionsPerMonth:    models.Unlimited,
				CanCreateSession:       true,
				CanImportExternal:      true,
				MaxClubs:               models.Unlimited,
				CanCreateMultipleClubs: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FeatureAccessFor(tt.status))
		})
	}
}

func TestEngine_IncrementSessionUsage(t *testing.T) {
	repo := new(RepoMock)
	repo.On("IncrementSessionCount", mock.Anything, "uid-1").Return(nil).Once()

	engine := fixedEngine(repo, nil, time.Now())
	assert.NoError(t, engine.IncrementSessionUsage(context.Background(), "uid-1"))

	repo.On("IncrementSessionCount", mock.Anything, "ghost").
		Return(models.ErrProfileNotFound).Once()
	assert.ErrorIs(t, engine.IncrementSessionUsage(context.Background(), "ghost"),
		models.ErrProfileNotFound)
	repo.AssertExpectations(t)
}
