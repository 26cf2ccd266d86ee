package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codequest-platform/backend/internal/domain"
)

// CampaignService handles campaigns and their applications. Applications
// follow the same guarded review discipline as submissions but carry no
// point arithmetic.
type CampaignService struct {
	campaignRepo domain.CampaignRepository
	appRepo      domain.ApplicationRepository
	userRepo     domain.UserRepository
	tracer       trace.Tracer
	logger       *zap.Logger
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	campaignRepo domain.CampaignRepository,
	appRepo domain.ApplicationRepository,
	userRepo domain.UserRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		appRepo:      appRepo,
		userRepo:     userRepo,
		tracer:       tracer,
		logger:       logger,
	}
}

// CreateCampaign creates a new campaign; requires the admin capability
func (s *CampaignService) CreateCampaign(ctx context.Context, creatorID uuid.UUID, req *domain.CreateCampaignRequest) (*domain.Campaign, error) {
	ctx, span := s.tracer.Start(ctx, "CampaignService.CreateCampaign")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", creatorID.String()))

	creator, err := s.userRepo.FindByID(creatorID)
	if err != nil {
		return nil, err
	}
	if !creator.IsAdmin {
		return nil, domain.ErrPermissionDenied
	}

	startsAt := req.StartsAt
	if startsAt.IsZero() {
		startsAt = time.Now().UTC()
	}

	campaign := &domain.Campaign{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.CampaignStatusActive,
		StartsAt:    startsAt,
		EndsAt:      req.EndsAt,
		CreatedBy:   creatorID,
	}

	if err := s.campaignRepo.Create(campaign); err != nil {
		s.logger.Error("Failed to create campaign", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("created_by", creatorID.String()),
	)

	return campaign, nil
}

// ListCampaigns returns all campaigns
func (s *CampaignService) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	ctx, span := s.tracer.Start(ctx, "CampaignService.ListCampaigns")
	defer span.End()

	return s.campaignRepo.FindAll()
}

// Apply records a user's application to a campaign. One application per
// (user, campaign), enforced by the storage layer.
func (s *CampaignService) Apply(ctx context.Context, userID, campaignID uuid.UUID, req *domain.ApplyRequest) (*domain.CampaignApplication, error) {
	ctx, span := s.tracer.Start(ctx, "CampaignService.Apply")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("campaign.id", campaignID.String()),
	)

	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsOpen() {
		return nil, domain.ErrCampaignClosed
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	application := &domain.CampaignApplication{
		UserID:     userID,
		CampaignID: campaignID,
		Status:     domain.ApplicationPending,
		Motivation: req.Motivation,
		AppliedAt:  time.Now().UTC(),
		UserName:   user.DisplayName,
		UserEmail:  user.Email,
	}

	if err := s.appRepo.Create(application); err != nil {
		return nil, err
	}

	s.logger.Info("Campaign application created",
		zap.String("application_id", application.ID.String()),
		zap.String("campaign_id", campaignID.String()),
		zap.String("user_id", userID.String()),
	)

	return application, nil
}

// ListApplications returns a campaign's applications for the reviewer UI
func (s *CampaignService) ListApplications(ctx context.Context, campaignID uuid.UUID) ([]domain.CampaignApplication, error) {
	ctx, span := s.tracer.Start(ctx, "CampaignService.ListApplications")
	defer span.End()

	span.SetAttributes(attribute.String("campaign.id", campaignID.String()))
	return s.appRepo.FindByCampaign(campaignID)
}

// ReviewApplication applies a reviewer decision to an application. Same
// rules as submission review: admin capability required, rejection requires
// notes, the status update is guarded on the expected prior status.
func (s *CampaignService) ReviewApplication(ctx context.Context, reviewerID, applicationID uuid.UUID, decision domain.ApplicationStatus, notes string) (*domain.CampaignApplication, error) {
	ctx, span := s.tracer.Start(ctx, "CampaignService.ReviewApplication")
	defer span.End()

	span.SetAttributes(
		attribute.String("reviewer.id", reviewerID.String()),
		attribute.String("application.id", applicationID.String()),
		attribute.String("review.decision", string(decision)),
	)

	if !decision.Valid() {
		return nil, domain.ErrBadRequest
	}

	reviewer, err := s.userRepo.FindByID(reviewerID)
	if err != nil {
		return nil, err
	}
	if !reviewer.IsAdmin {
		return nil, domain.ErrPermissionDenied
	}

	application, err := s.appRepo.FindByID(applicationID)
	if err != nil {
		return nil, err
	}

	if application.Status == decision {
		return application, nil
	}

	if decision == domain.ApplicationRejected && strings.TrimSpace(notes) == "" {
		return nil, domain.ErrNotesRequired
	}

	if err := s.appRepo.UpdateStatusFrom(applicationID, application.Status, decision, notes, time.Now().UTC()); err != nil {
		return nil, err
	}

	s.logger.Info("Application reviewed",
		zap.String("application_id", applicationID.String()),
		zap.String("reviewer_id", reviewerID.String()),
		zap.String("decision", string(decision)),
	)

	return s.appRepo.FindByID(applicationID)
}
