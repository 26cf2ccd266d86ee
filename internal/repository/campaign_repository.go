package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest-platform/backend/internal/domain"
)

// campaignRepository implements domain.CampaignRepository using GORM
type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) domain.CampaignRepository {
	return &campaignRepository{db: db}
}

// Create creates a new campaign
func (r *campaignRepository) Create(campaign *domain.Campaign) error {
	return r.db.Create(campaign).Error
}

// FindByID finds a campaign by its ID
func (r *campaignRepository) FindByID(id uuid.UUID) (*domain.Campaign, error) {
	var campaign domain.Campaign
	result := r.db.Where("id = ?", id).First(&campaign)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, result.Error
	}
	return &campaign, nil
}

// FindAll returns all campaigns, newest first
func (r *campaignRepository) FindAll() ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	result := r.db.Order("created_at DESC").Find(&campaigns)
	return campaigns, result.Error
}

// Update updates an existing campaign
func (r *campaignRepository) Update(campaign *domain.Campaign) error {
	return r.db.Save(campaign).Error
}

// WithContext returns a repository with the given context for tracing
func (r *campaignRepository) WithContext(ctx context.Context) domain.CampaignRepository {
	return &campaignRepository{db: r.db.WithContext(ctx)}
}
