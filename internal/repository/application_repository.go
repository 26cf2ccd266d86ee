package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest-platform/backend/internal/domain"
)

// applicationRepository implements domain.ApplicationRepository using GORM
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) domain.ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts a new application. The unique index on
// (user_id, campaign_id) enforces one application per user per campaign.
func (r *applicationRepository) Create(application *domain.CampaignApplication) error {
	result := r.db.Create(application)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyApplied
		}
		return result.Error
	}
	return nil
}

// FindByID finds an application by its ID
func (r *applicationRepository) FindByID(id uuid.UUID) (*domain.CampaignApplication, error) {
	var application domain.CampaignApplication
	result := r.db.Where("id = ?", id).First(&application)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, result.Error
	}
	return &application, nil
}

// FindByCampaign returns all applications for a campaign ordered by apply time
func (r *applicationRepository) FindByCampaign(campaignID uuid.UUID) ([]domain.CampaignApplication, error) {
	var applications []domain.CampaignApplication
	result := r.db.
		Where("campaign_id = ?", campaignID).
		Order("applied_at ASC").
		Find(&applications)
	return applications, result.Error
}

// UpdateStatusFrom performs a guarded status update keyed on the expected
// prior status, same discipline as submission review.
func (r *applicationRepository) UpdateStatusFrom(id uuid.UUID, from, to domain.ApplicationStatus, notes string, reviewedAt time.Time) error {
	result := r.db.Model(&domain.CampaignApplication{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":      to,
			"notes":       notes,
			"reviewed_at": reviewedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&domain.CampaignApplication{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrApplicationNotFound
		}
		return domain.ErrConcurrentModification
	}
	return nil
}

// WithContext returns a repository with the given context for tracing
func (r *applicationRepository) WithContext(ctx context.Context) domain.ApplicationRepository {
	return &applicationRepository{db: r.db.WithContext(ctx)}
}
