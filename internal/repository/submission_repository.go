package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest-platform/backend/internal/domain"
)

// submissionRepository implements domain.SubmissionRepository using GORM
type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) domain.SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create inserts a new submission. The unique index on
// (user_id, challenge_date) is the at-most-one-per-day guard: a duplicate
// insert fails at the database regardless of interleaving.
func (r *submissionRepository) Create(submission *domain.Submission) error {
	result := r.db.Create(submission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadySubmitted
		}
		return result.Error
	}
	return nil
}

// FindByID finds a submission by its ID
func (r *submissionRepository) FindByID(id uuid.UUID) (*domain.Submission, error) {
	var submission domain.Submission
	result := r.db.Where("id = ?", id).First(&submission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, result.Error
	}
	return &submission, nil
}

// FindByUserAndDate finds a user's submission for a specific day
func (r *submissionRepository) FindByUserAndDate(userID uuid.UUID, date string) (*domain.Submission, error) {
	var submission domain.Submission
	result := r.db.
		Where("user_id = ? AND challenge_date = ?", userID, date).
		First(&submission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil // Not found is not an error here
		}
		return nil, result.Error
	}
	return &submission, nil
}

// FindByDate returns all submissions for a day ordered by submission time,
// for the reviewer listing.
func (r *submissionRepository) FindByDate(date string) ([]domain.Submission, error) {
	var submissions []domain.Submission
	result := r.db.
		Where("challenge_date = ?", date).
		Order("submitted_at ASC").
		Find(&submissions)
	return submissions, result.Error
}

// ApplyTransition performs the guarded status update and the profile
// point/streak mutation in a single transaction. The status UPDATE is keyed
// on the expected prior status; zero rows affected means another reviewer got
// there first and nothing is applied.
func (r *submissionRepository) ApplyTransition(t domain.StatusTransition) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Submission{}).
			Where("id = ? AND status = ?", t.SubmissionID, t.From).
			Updates(map[string]interface{}{
				"status":         t.To,
				"admin_notes":    t.Notes,
				"reviewed_at":    t.ReviewedAt,
				"awarded_points": t.AwardedPoints,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Distinguish a vanished submission from a lost race.
			var count int64
			if err := tx.Model(&domain.Submission{}).
				Where("id = ?", t.SubmissionID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrSubmissionNotFound
			}
			return domain.ErrConcurrentModification
		}

		if t.PointsDelta == 0 && t.StreakDelta == 0 {
			return nil
		}

		ledger := tx.Model(&domain.UserProfile{}).
			Where("id = ?", t.UserID).
			UpdateColumns(map[string]interface{}{
				"points":                 gorm.Expr("points + ?", t.PointsDelta),
				"daily_challenge_streak": gorm.Expr("daily_challenge_streak + ?", t.StreakDelta),
			})
		if ledger.Error != nil {
			return ledger.Error
		}
		if ledger.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// WithContext returns a repository with the given context for tracing
func (r *submissionRepository) WithContext(ctx context.Context) domain.SubmissionRepository {
	return &submissionRepository{db: r.db.WithContext(ctx)}
}
