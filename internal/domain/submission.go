package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the review state of a daily submission
type SubmissionStatus string

const (
	StatusReview   SubmissionStatus = "review"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Valid reports whether s is a known submission status
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Submission is a user's one-per-day solution attempt. The composite unique
// index on (user_id, challenge_date) is what enforces at-most-one submission:
// concurrent creates race at the database, not in application code.
type Submission struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_submissions_user_day"`
	ChallengeDate string           `json:"challenge_date" gorm:"type:varchar(10);not null;uniqueIndex:idx_submissions_user_day;index"`
	Code          string           `json:"code" gorm:"type:text;not null"`
	Language      string           `json:"language" gorm:"type:varchar(30);not null"`
	Status        SubmissionStatus `json:"status" gorm:"type:varchar(20);not null;default:'review'"`
	SubmittedAt   time.Time        `json:"submitted_at" gorm:"not null"`
	ReviewedAt    *time.Time       `json:"reviewed_at"`
	AdminNotes    string           `json:"admin_notes" gorm:"type:text"`
	// AwardedPoints snapshots the point value applied on approval so a later
	// revert subtracts exactly what was added, even if point tables change.
	AwardedPoints int `json:"awarded_points" gorm:"not null;default:0"`

	// Denormalized for the reviewer listing; avoids a join per row.
	UserName  string `json:"user_name" gorm:"not null"`
	UserEmail string `json:"user_email" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (Submission) TableName() string {
	return "submissions"
}

// StatusTransition describes one atomic review step: the guarded status
// update plus the point/streak deltas it carries. From is the expected prior
// status; if the row has moved on, the transition must fail without applying
// anything.
type StatusTransition struct {
	SubmissionID  uuid.UUID
	UserID        uuid.UUID
	From          SubmissionStatus
	To            SubmissionStatus
	Notes         string
	ReviewedAt    time.Time
	AwardedPoints int
	PointsDelta   int
	StreakDelta   int
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	// Create inserts a new submission and returns ErrAlreadySubmitted when a
	// row for (user, day) already exists.
	Create(submission *Submission) error
	FindByID(id uuid.UUID) (*Submission, error)
	// FindByUserAndDate returns nil, nil when the user has no submission for
	// the given day.
	FindByUserAndDate(userID uuid.UUID, date string) (*Submission, error)
	FindByDate(date string) ([]Submission, error)
	// ApplyTransition atomically performs the status update and the profile
	// point/streak mutation in one transaction. Returns
	// ErrConcurrentModification when the submission is no longer in t.From.
	ApplyTransition(t StatusTransition) error
}

// SubmitSolutionRequest is the payload for submitting today's solution
type SubmitSolutionRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required,oneof=go python javascript typescript java cpp rust"`
}

// ReviewRequest is the payload for a reviewer decision
type ReviewRequest struct {
	Decision SubmissionStatus `json:"decision" binding:"required"`
	Notes    string           `json:"notes"`
}

// SubmissionResponse represents a submission in API responses
type SubmissionResponse struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"`
	UserName      string           `json:"user_name"`
	UserEmail     string           `json:"user_email"`
	ChallengeDate string           `json:"challenge_date"`
	Code          string           `json:"code"`
	Language      string           `json:"language"`
	Status        SubmissionStatus `json:"status"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
	AdminNotes    string           `json:"admin_notes,omitempty"`
	AwardedPoints int              `json:"awarded_points"`
}

// ToResponse converts a Submission to a SubmissionResponse
func (s *Submission) ToResponse() SubmissionResponse {
	return SubmissionResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		UserName:      s.UserName,
		UserEmail:     s.UserEmail,
		ChallengeDate: s.ChallengeDate,
		Code:          s.Code,
		Language:      s.Language,
		Status:        s.Status,
		SubmittedAt:   s.SubmittedAt,
		ReviewedAt:    s.ReviewedAt,
		AdminNotes:    s.AdminNotes,
		AwardedPoints: s.AwardedPoints,
	}
}
