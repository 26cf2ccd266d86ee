package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codequest-platform/backend/internal/domain"
	"github.com/codequest-platform/backend/internal/middleware"
	"github.com/codequest-platform/backend/internal/service"
)

// CampaignHandler handles the user-facing campaign endpoints
type CampaignHandler struct {
	campaignService *service.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// ListCampaigns returns all campaigns
// GET /api/campaigns
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.campaignService.ListCampaigns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve campaigns",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": campaigns,
		"count":     len(campaigns),
	})
}

// Apply submits the authenticated user's application to a campaign
// POST /api/campaigns/:id/apply
func (h *CampaignHandler) Apply(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid campaign ID",
		})
		return
	}

	var req domain.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	application, err := h.campaignService.Apply(c.Request.Context(), userID, campaignID, &req)
	if err != nil {
		switch err {
		case domain.ErrCampaignNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Campaign not found",
			})
		case domain.ErrCampaignClosed:
			c.JSON(http.StatusConflict, gin.H{
				"error": "Campaign is no longer accepting applications",
			})
		case domain.ErrAlreadyApplied:
			c.JSON(http.StatusConflict, gin.H{
				"error": "You have already applied to this campaign",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to submit application",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, application.ToResponse())
}
