package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codequest-platform/backend/internal/domain"
)

// SubmissionService handles daily solution submissions
type SubmissionService struct {
	subRepo     domain.SubmissionRepository
	userRepo    domain.UserRepository
	problemRepo domain.DailyProblemRepository
	tracer      trace.Tracer
	logger      *zap.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	subRepo domain.SubmissionRepository,
	userRepo domain.UserRepository,
	problemRepo domain.DailyProblemRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		subRepo:     subRepo,
		userRepo:    userRepo,
		problemRepo: problemRepo,
		tracer:      tracer,
		logger:      logger,
	}
}

// SubmitDailySolution records the user's one-per-day attempt for today's
// challenge. The (user, day) uniqueness is enforced by the storage layer, so
// two concurrent submits cannot both succeed.
func (s *SubmissionService) SubmitDailySolution(ctx context.Context, userID uuid.UUID, req *domain.SubmitSolutionRequest) (*domain.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "SubmissionService.SubmitDailySolution")
	defer span.End()

	today := domain.Today()
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("challenge.date", today),
	)

	// A submission only makes sense against a pinned problem of the day.
	problem, err := s.problemRepo.FindByDate(today)
	if err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, domain.ErrChallengeNotAvailable
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	submission := &domain.Submission{
		UserID:        userID,
		ChallengeDate: today,
		Code:          req.Code,
		Language:      req.Language,
		Status:        domain.StatusReview,
		SubmittedAt:   time.Now().UTC(),
		UserName:      user.DisplayName,
		UserEmail:     user.Email,
	}

	if err := s.subRepo.Create(submission); err != nil {
		if err == domain.ErrAlreadySubmitted {
			return nil, err
		}
		s.logger.Error("Failed to create submission",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Daily solution submitted",
		zap.String("submission_id", submission.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("date", today),
		zap.String("language", submission.Language),
	)

	return submission, nil
}

// GetOwnSubmission returns the user's submission for a date, or nil when they
// have not submitted that day.
func (s *SubmissionService) GetOwnSubmission(ctx context.Context, userID uuid.UUID, date string) (*domain.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "SubmissionService.GetOwnSubmission")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("challenge.date", date),
	)

	return s.subRepo.FindByUserAndDate(userID, date)
}

// ListSubmissionsForDate returns all submissions for a day ordered by
// submission time, for the reviewer UI.
func (s *SubmissionService) ListSubmissionsForDate(ctx context.Context, date string) ([]domain.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "SubmissionService.ListSubmissionsForDate")
	defer span.End()

	span.SetAttributes(attribute.String("challenge.date", date))
	return s.subRepo.FindByDate(date)
}
