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

// ReviewService is the submission state machine. States: review (initial),
// approved, rejected; approved and rejected can be reverted back to review.
// Point and streak mutation happens only here, inside the atomic transition
// applied by the repository.
type ReviewService struct {
	subRepo     domain.SubmissionRepository
	userRepo    domain.UserRepository
	problemRepo domain.DailyProblemRepository
	tracer      trace.Tracer
	logger      *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	subRepo domain.SubmissionRepository,
	userRepo domain.UserRepository,
	problemRepo domain.DailyProblemRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		subRepo:     subRepo,
		userRepo:    userRepo,
		problemRepo: problemRepo,
		tracer:      tracer,
		logger:      logger,
	}
}

// ReviewSubmission applies a reviewer decision to a submission. The reviewer
// must hold the admin capability; rejection requires non-empty notes.
// Reviewing into the submission's current status is an idempotent no-op, so a
// double-clicked approval can never award points twice.
func (s *ReviewService) ReviewSubmission(ctx context.Context, reviewerID, submissionID uuid.UUID, decision domain.SubmissionStatus, notes string) (*domain.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.ReviewSubmission")
	defer span.End()

	span.SetAttributes(
		attribute.String("reviewer.id", reviewerID.String()),
		attribute.String("submission.id", submissionID.String()),
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

	submission, err := s.subRepo.FindByID(submissionID)
	if err != nil {
		return nil, err
	}

	if submission.Status == decision {
		// Already in the requested state; nothing to apply.
		return submission, nil
	}

	transition, err := s.buildTransition(submission, decision, notes)
	if err != nil {
		return nil, err
	}

	if err := s.subRepo.ApplyTransition(transition); err != nil {
		if err == domain.ErrConcurrentModification {
			s.logger.Warn("Review transition lost race",
				zap.String("submission_id", submissionID.String()),
				zap.String("expected_status", string(transition.From)),
			)
		}
		return nil, err
	}

	s.logger.Info("Submission reviewed",
		zap.String("submission_id", submissionID.String()),
		zap.String("reviewer_id", reviewerID.String()),
		zap.String("from", string(transition.From)),
		zap.String("to", string(transition.To)),
		zap.Int("points_delta", transition.PointsDelta),
	)

	return s.subRepo.FindByID(submissionID)
}

// buildTransition computes the deltas for a requested transition. Allowed
// edges: review->approved, review->rejected, approved->review,
// rejected->review. Jumping directly between approved and rejected is not a
// legal edge; re-review goes through review.
func (s *ReviewService) buildTransition(submission *domain.Submission, decision domain.SubmissionStatus, notes string) (domain.StatusTransition, error) {
	t := domain.StatusTransition{
		SubmissionID: submission.ID,
		UserID:       submission.UserID,
		From:         submission.Status,
		To:           decision,
		Notes:        notes,
		ReviewedAt:   time.Now().UTC(),
	}

	switch {
	case submission.Status == domain.StatusReview && decision == domain.StatusApproved:
		points, err := s.challengePoints(submission.ChallengeDate)
		if err != nil {
			return t, err
		}
		t.AwardedPoints = points
		t.PointsDelta = points
		t.StreakDelta = 1

	case submission.Status == domain.StatusReview && decision == domain.StatusRejected:
		if strings.TrimSpace(notes) == "" {
			return t, domain.ErrNotesRequired
		}

	case submission.Status == domain.StatusApproved && decision == domain.StatusReview:
		// Undo exactly what approval applied.
		t.AwardedPoints = 0
		t.PointsDelta = -submission.AwardedPoints
		t.StreakDelta = -1

	case submission.Status == domain.StatusRejected && decision == domain.StatusReview:
		// Rejection had no ledger effect; nothing to reverse.

	default:
		return t, domain.ErrInvalidTransition
	}

	return t, nil
}

// challengePoints returns the point value of the day's pinned problem
func (s *ReviewService) challengePoints(date string) (int, error) {
	problem, err := s.problemRepo.FindByDate(date)
	if err != nil {
		return 0, err
	}
	if problem == nil {
		// A submission exists for a date with no pinned problem; that is a
		// data-integrity bug, not a reviewer mistake.
		return 0, domain.ErrChallengeNotAvailable
	}
	return problem.Points, nil
}
