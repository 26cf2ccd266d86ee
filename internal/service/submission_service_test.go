package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/codequest-platform/backend/internal/domain"
)

func newSubmissionService(subRepo *fakeSubmissionRepo, userRepo *fakeUserRepo, problemRepo *fakeProblemRepo) *SubmissionService {
	return NewSubmissionService(subRepo, userRepo, problemRepo,
		noop.NewTracerProvider().Tracer("test"), zap.NewNop())
}

func pinProblemForToday(t *testing.T, problemRepo *fakeProblemRepo) *domain.DailyProblem {
	t.Helper()
	problem, err := problemRepo.CreateIfAbsent(&domain.DailyProblem{
		SourceID:   "p-today",
		Title:      "Median of Streams",
		Difficulty: domain.DifficultyMedium,
		Points:     25,
		Date:       domain.Today(),
	})
	require.NoError(t, err)
	return problem
}

func TestSubmissionService_SubmitDailySolution(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesReviewSubmission", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		subRepo := newFakeSubmissionRepo(userRepo)
		problemRepo := newFakeProblemRepo()
		pinProblemForToday(t, problemRepo)
		user := userRepo.addUser(false)
		svc := newSubmissionService(subRepo, userRepo, problemRepo)

		submission, err := svc.SubmitDailySolution(ctx, user.ID, &domain.SubmitSolutionRequest{
			Code:     "func main() {}",
			Language: "go",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusReview, submission.Status)
		assert.Equal(t, domain.Today(), submission.ChallengeDate)
		assert.Equal(t, user.DisplayName, submission.UserName)
		assert.Equal(t, user.Email, submission.UserEmail)
		assert.Zero(t, submission.AwardedPoints)
		assert.Nil(t, submission.ReviewedAt)
	})

	t.Run("SecondSubmissionSameDayRejected", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		subRepo := newFakeSubmissionRepo(userRepo)
		problemRepo := newFakeProblemRepo()
		pinProblemForToday(t, problemRepo)
		user := userRepo.addUser(false)
		svc := newSubmissionService(subRepo, userRepo, problemRepo)

		_, err := svc.SubmitDailySolution(ctx, user.ID, &domain.SubmitSolutionRequest{Code: "a", Language: "go"})
		require.NoError(t, err)

		_, err = svc.SubmitDailySolution(ctx, user.ID, &domain.SubmitSolutionRequest{Code: "b", Language: "python"})
		assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)

		// The first attempt is the one that stands.
		stored, err := subRepo.FindByUserAndDate(user.ID, domain.Today())
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "a", stored.Code)
	})

	t.Run("DifferentUsersSameDay", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		subRepo := newFakeSubmissionRepo(userRepo)
		problemRepo := newFakeProblemRepo()
		pinProblemForToday(t, problemRepo)
		alice := userRepo.addUser(false)
		bob := userRepo.addUser(false)
		svc := newSubmissionService(subRepo, userRepo, problemRepo)

		_, err := svc.SubmitDailySolution(ctx, alice.ID, &domain.SubmitSolutionRequest{Code: "a", Language: "go"})
		require.NoError(t, err)
		_, err = svc.SubmitDailySolution(ctx, bob.ID, &domain.SubmitSolutionRequest{Code: "b", Language: "rust"})
		require.NoError(t, err)
	})

	t.Run("NoChallengePinnedToday", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		subRepo := newFakeSubmissionRepo(userRepo)
		problemRepo := newFakeProblemRepo()
		user := userRepo.addUser(false)
		svc := newSubmissionService(subRepo, userRepo, problemRepo)

		_, err := svc.SubmitDailySolution(ctx, user.ID, &domain.SubmitSolutionRequest{Code: "a", Language: "go"})
		assert.ErrorIs(t, err, domain.ErrChallengeNotAvailable)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		subRepo := newFakeSubmissionRepo(userRepo)
		problemRepo := newFakeProblemRepo()
		pinProblemForToday(t, problemRepo)
		svc := newSubmissionService(subRepo, userRepo, problemRepo)

		_, err := svc.SubmitDailySolution(ctx, uuid.New(), &domain.SubmitSolutionRequest{Code: "a", Language: "go"})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestSubmissionService_GetOwnSubmission(t *testing.T) {
	ctx := context.Background()

	userRepo := newFakeUserRepo()
	subRepo := newFakeSubmissionRepo(userRepo)
	problemRepo := newFakeProblemRepo()
	pinProblemForToday(t, problemRepo)
	user := userRepo.addUser(false)
	svc := newSubmissionService(subRepo, userRepo, problemRepo)

	t.Run("NilWhenAbsent", func(t *testing.T) {
		submission, err := svc.GetOwnSubmission(ctx, user.ID, domain.Today())
		require.NoError(t, err)
		assert.Nil(t, submission)
	})

	t.Run("ReturnsOwnSubmission", func(t *testing.T) {
		created, err := svc.SubmitDailySolution(ctx, user.ID, &domain.SubmitSolutionRequest{Code: "x", Language: "go"})
		require.NoError(t, err)

		found, err := svc.GetOwnSubmission(ctx, user.ID, domain.Today())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
	})
}

func TestSubmissionService_ListSubmissionsForDate(t *testing.T) {
	ctx := context.Background()

	userRepo := newFakeUserRepo()
	subRepo := newFakeSubmissionRepo(userRepo)
	problemRepo := newFakeProblemRepo()
	svc := newSubmissionService(subRepo, userRepo, problemRepo)

	date := "2024-03-05"
	base := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	// Insert out of order; the list must come back by submission time.
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		user := userRepo.addUser(false)
		require.NoError(t, subRepo.Create(&domain.Submission{
			UserID:        user.ID,
			ChallengeDate: date,
			Code:          "code",
			Language:      "go",
			Status:        domain.StatusReview,
			SubmittedAt:   base.Add(offset),
			UserName:      user.DisplayName,
			UserEmail:     user.Email,
		}))
	}

	listed, err := svc.ListSubmissionsForDate(ctx, date)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.True(t, listed[0].SubmittedAt.Before(listed[1].SubmittedAt))
	assert.True(t, listed[1].SubmittedAt.Before(listed[2].SubmittedAt))

	other, err := svc.ListSubmissionsForDate(ctx, "2024-03-06")
	require.NoError(t, err)
	assert.Empty(t, other)
}
