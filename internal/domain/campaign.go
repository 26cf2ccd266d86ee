package domain

import (
	"time"

	"github.com/google/uuid"
)

// CampaignStatus represents the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusClosed CampaignStatus = "closed"
)

// Campaign is an admin-created program users can apply to
type Campaign struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	Status      CampaignStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	StartsAt    time.Time      `json:"starts_at"`
	EndsAt      *time.Time     `json:"ends_at"`
	CreatedBy   uuid.UUID      `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Campaign) TableName() string {
	return "campaigns"
}

// IsOpen reports whether the campaign currently accepts applications
func (c *Campaign) IsOpen() bool {
	if c.Status != CampaignStatusActive {
		return false
	}
	if c.EndsAt != nil && time.Now().After(*c.EndsAt) {
		return false
	}
	return true
}

// ApplicationStatus represents the review state of a campaign application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is a known application status
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// CampaignApplication follows the same single-writer review discipline as
// Submission but carries no point arithmetic. The composite unique index on
// (user_id, campaign_id) enforces one application per user per campaign.
type CampaignApplication struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_applications_user_campaign"`
	CampaignID uuid.UUID         `json:"campaign_id" gorm:"type:uuid;not null;uniqueIndex:idx_applications_user_campaign;index"`
	Status     ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Motivation string            `json:"motivation" gorm:"type:text"`
	Notes      string            `json:"notes" gorm:"type:text"`
	AppliedAt  time.Time         `json:"applied_at" gorm:"not null"`
	ReviewedAt *time.Time        `json:"reviewed_at"`

	// Denormalized for the reviewer listing
	UserName  string `json:"user_name" gorm:"not null"`
	UserEmail string `json:"user_email" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (CampaignApplication) TableName() string {
	return "campaign_applications"
}

// CampaignRepository defines the interface for campaign data access
type CampaignRepository interface {
	Create(campaign *Campaign) error
	FindByID(id uuid.UUID) (*Campaign, error)
	FindAll() ([]Campaign, error)
	Update(campaign *Campaign) error
}

// ApplicationRepository defines the interface for application data access
type ApplicationRepository interface {
	// Create inserts a new application and returns ErrAlreadyApplied when the
	// user already applied to the campaign.
	Create(application *CampaignApplication) error
	FindByID(id uuid.UUID) (*CampaignApplication, error)
	FindByCampaign(campaignID uuid.UUID) ([]CampaignApplication, error)
	// UpdateStatusFrom performs a guarded status update and returns
	// ErrConcurrentModification when the application is no longer in `from`.
	UpdateStatusFrom(id uuid.UUID, from, to ApplicationStatus, notes string, reviewedAt time.Time) error
}

// CreateCampaignRequest represents the data needed to create a campaign
type CreateCampaignRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=120"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// ApplyRequest is the payload for applying to a campaign
type ApplyRequest struct {
	Motivation string `json:"motivation" binding:"max=2000"`
}

// ApplicationResponse represents an application in API responses
type ApplicationResponse struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	UserName   string            `json:"user_name"`
	UserEmail  string            `json:"user_email"`
	CampaignID uuid.UUID         `json:"campaign_id"`
	Status     ApplicationStatus `json:"status"`
	Motivation string            `json:"motivation,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	AppliedAt  time.Time         `json:"applied_at"`
	ReviewedAt *time.Time        `json:"reviewed_at,omitempty"`
}

// ToResponse converts a CampaignApplication to an ApplicationResponse
func (a *CampaignApplication) ToResponse() ApplicationResponse {
	return ApplicationResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		UserName:   a.UserName,
		UserEmail:  a.UserEmail,
		CampaignID: a.CampaignID,
		Status:     a.Status,
		Motivation: a.Motivation,
		Notes:      a.Notes,
		AppliedAt:  a.AppliedAt,
		ReviewedAt: a.ReviewedAt,
	}
}
