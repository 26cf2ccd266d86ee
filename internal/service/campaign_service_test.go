package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/codequest-platform/backend/internal/domain"
)

type campaignFixture struct {
	svc      *CampaignService
	userRepo *fakeUserRepo
	campRepo *fakeCampaignRepo
	appRepo  *fakeApplicationRepo
	admin    *domain.UserProfile
	user     *domain.UserProfile
}

func newCampaignFixture(t *testing.T) *campaignFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	campRepo := newFakeCampaignRepo()
	appRepo := newFakeApplicationRepo()

	svc := NewCampaignService(campRepo, appRepo, userRepo,
		noop.NewTracerProvider().Tracer("test"), zap.NewNop())

	return &campaignFixture{
		svc:      svc,
		userRepo: userRepo,
		campRepo: campRepo,
		appRepo:  appRepo,
		admin:    userRepo.addUser(true),
		user:     userRepo.addUser(false),
	}
}

func (f *campaignFixture) openCampaign(t *testing.T) *domain.Campaign {
	t.Helper()
	endsAt := time.Now().UTC().Add(30 * 24 * time.Hour)
	campaign, err := f.svc.CreateCampaign(context.Background(), f.admin.ID, &domain.CreateCampaignRequest{
		Title:       "Summer Mentorship",
		Description: "Eight weeks of pairing",
		EndsAt:      &endsAt,
	})
	require.NoError(t, err)
	return campaign
}

func TestCampaignService_CreateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminCreatesActiveCampaign", func(t *testing.T) {
		f := newCampaignFixture(t)

		campaign := f.openCampaign(t)
		assert.Equal(t, domain.CampaignStatusActive, campaign.Status)
		assert.Equal(t, f.admin.ID, campaign.CreatedBy)
		assert.False(t, campaign.StartsAt.IsZero())
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		f := newCampaignFixture(t)

		_, err := f.svc.CreateCampaign(ctx, f.user.ID, &domain.CreateCampaignRequest{Title: "Nope"})
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}

func TestCampaignService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesPendingApplication", func(t *testing.T) {
		f := newCampaignFixture(t)
		campaign := f.openCampaign(t)

		application, err := f.svc.Apply(ctx, f.user.ID, campaign.ID, &domain.ApplyRequest{Motivation: "I want in"})
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationPending, application.Status)
		assert.Equal(t, f.user.DisplayName, application.UserName)
		assert.Equal(t, f.user.Email, application.UserEmail)
	})

	t.Run("DuplicateApplicationRejected", func(t *testing.T) {
		f := newCampaignFixture(t)
		campaign := f.openCampaign(t)

		_, err := f.svc.Apply(ctx, f.user.ID, campaign.ID, &domain.ApplyRequest{Motivation: "first"})
		require.NoError(t, err)

		_, err = f.svc.Apply(ctx, f.user.ID, campaign.ID, &domain.ApplyRequest{Motivation: "second"})
		assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	})

	t.Run("ClosedCampaignRejected", func(t *testing.T) {
		f := newCampaignFixture(t)
		campaign := f.openCampaign(t)
		campaign.Status = domain.CampaignStatusClosed
		require.NoError(t, f.campRepo.Update(campaign))

		_, err := f.svc.Apply(ctx, f.user.ID, campaign.ID, &domain.ApplyRequest{Motivation: "late"})
		assert.ErrorIs(t, err, domain.ErrCampaignClosed)
	})

	t.Run("ExpiredCampaignRejected", func(t *testing.T) {
		f := newCampaignFixture(t)
		campaign := f.openCampaign(t)
		expired := time.Now().UTC().Add(-time.Hour)
		campaign.EndsAt = &expired
		require.NoError(t, f.campRepo.Update(campaign))

		_, err := f.svc.Apply(ctx, f.user.ID, campaign.ID, &domain.ApplyRequest{Motivation: "late"})
		assert.ErrorIs(t, err, domain.ErrCampaignClosed)
	})

	t.Run("UnknownCampaign", func(t *testing.T) {
		f := newCampaignFixture(t)

		_, err := f.svc.Apply(ctx, f.user.ID, f.user.ID, &domain.ApplyRequest{Motivation: "?"})
		assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
	})
}

func TestCampaignService_ReviewApplication(t *testing.T) {
	ctx := context.Background()

	apply := func(t *testing.T, f *campaignFixture) *domain.CampaignApplication {
		t.Helper()
		campaign := f.openCampaign(t)
		application, err := f.svc.Apply(ctx, f.user.ID, campaign.ID, &domain.ApplyRequest{Motivation: "pick me"})
		require.NoError(t, err)
		return application
	}

	t.Run("Approve", func(t *testing.T) {
		f := newCampaignFixture(t)
		application := apply(t, f)

		reviewed, err := f.svc.ReviewApplication(ctx, f.admin.ID, application.ID, domain.ApplicationApproved, "")
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationApproved, reviewed.Status)
		assert.NotNil(t, reviewed.ReviewedAt)
	})

	t.Run("RejectRequiresNotes", func(t *testing.T) {
		f := newCampaignFixture(t)
		application := apply(t, f)

		_, err := f.svc.ReviewApplication(ctx, f.admin.ID, application.ID, domain.ApplicationRejected, "  ")
		assert.ErrorIs(t, err, domain.ErrNotesRequired)

		current, err := f.appRepo.FindByID(application.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationPending, current.Status)
	})

	t.Run("RejectWithNotes", func(t *testing.T) {
		f := newCampaignFixture(t)
		application := apply(t, f)

		reviewed, err := f.svc.ReviewApplication(ctx, f.admin.ID, application.ID, domain.ApplicationRejected, "cohort is full")
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationRejected, reviewed.Status)
		assert.Equal(t, "cohort is full", reviewed.Notes)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		f := newCampaignFixture(t)
		application := apply(t, f)

		_, err := f.svc.ReviewApplication(ctx, f.user.ID, application.ID, domain.ApplicationApproved, "")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("SameDecisionIsNoOp", func(t *testing.T) {
		f := newCampaignFixture(t)
		application := apply(t, f)

		first, err := f.svc.ReviewApplication(ctx, f.admin.ID, application.ID, domain.ApplicationApproved, "")
		require.NoError(t, err)
		firstReviewedAt := first.ReviewedAt

		again, err := f.svc.ReviewApplication(ctx, f.admin.ID, application.ID, domain.ApplicationApproved, "")
		require.NoError(t, err)
		assert.Equal(t, firstReviewedAt, again.ReviewedAt)
	})

	t.Run("InvalidDecision", func(t *testing.T) {
		f := newCampaignFixture(t)
		application := apply(t, f)

		_, err := f.svc.ReviewApplication(ctx, f.admin.ID, application.ID, domain.ApplicationStatus("maybe"), "")
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	})
}
