package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codequest-platform/backend/internal/domain"
	"github.com/codequest-platform/backend/internal/middleware"
	"github.com/codequest-platform/backend/internal/service"
)

// AdminHandler handles the reviewer endpoints. Routes using it are mounted
// behind AdminMiddleware; the services still re-check the capability.
type AdminHandler struct {
	submissionService *service.SubmissionService
	reviewService     *service.ReviewService
	campaignService   *service.CampaignService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	submissionService *service.SubmissionService,
	reviewService *service.ReviewService,
	campaignService *service.CampaignService,
) *AdminHandler {
	return &AdminHandler{
		submissionService: submissionService,
		reviewService:     reviewService,
		campaignService:   campaignService,
	}
}

// ListSubmissions returns a day's submissions for the reviewer queue
// GET /api/admin/submissions?date=2024-01-01
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = domain.Today()
	} else if _, err := domain.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
		return
	}

	submissions, err := h.submissionService.ListSubmissionsForDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve submissions",
		})
		return
	}

	responses := make([]domain.SubmissionResponse, len(submissions))
	for i, submission := range submissions {
		responses[i] = submission.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        date,
		"submissions": responses,
		"count":       len(responses),
	})
}

// ReviewSubmission applies a reviewer decision to a submission
// POST /api/admin/submissions/:id/review
func (h *AdminHandler) ReviewSubmission(c *gin.Context) {
	reviewerID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid submission ID",
		})
		return
	}

	var req domain.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	submission, err := h.reviewService.ReviewSubmission(c.Request.Context(), reviewerID, submissionID, req.Decision, req.Notes)
	if err != nil {
		switch err {
		case domain.ErrBadRequest:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown decision, expected review, approved or rejected",
			})
		case domain.ErrPermissionDenied:
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin capability required",
			})
		case domain.ErrSubmissionNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Submission not found",
			})
		case domain.ErrNotesRequired:
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Rejection requires notes explaining the decision",
			})
		case domain.ErrInvalidTransition:
			c.JSON(http.StatusConflict, gin.H{
				"error": "Submission must return to review before re-deciding",
			})
		case domain.ErrConcurrentModification:
			c.JSON(http.StatusConflict, gin.H{
				"error": "Submission was reviewed by someone else, reload and retry",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to review submission",
			})
		}
		return
	}

	c.JSON(http.StatusOK, submission.ToResponse())
}

// CreateCampaign creates a new campaign
// POST /api/admin/campaigns
func (h *AdminHandler) CreateCampaign(c *gin.Context) {
	creatorID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req domain.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	campaign, err := h.campaignService.CreateCampaign(c.Request.Context(), creatorID, &req)
	if err != nil {
		switch err {
		case domain.ErrPermissionDenied:
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin capability required",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create campaign",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// ListApplications returns a campaign's applications for review
// GET /api/admin/campaigns/:id/applications
func (h *AdminHandler) ListApplications(c *gin.Context) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid campaign ID",
		})
		return
	}

	applications, err := h.campaignService.ListApplications(c.Request.Context(), campaignID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve applications",
		})
		return
	}

	responses := make([]domain.ApplicationResponse, len(applications))
	for i, application := range applications {
		responses[i] = application.ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": responses,
		"count":        len(responses),
	})
}

// ApplicationReviewRequest is the payload for an application decision
type ApplicationReviewRequest struct {
	Decision domain.ApplicationStatus `json:"decision" binding:"required"`
	Notes    string                   `json:"notes"`
}

// ReviewApplication applies a reviewer decision to a campaign application
// POST /api/admin/applications/:id/review
func (h *AdminHandler) ReviewApplication(c *gin.Context) {
	reviewerID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid application ID",
		})
		return
	}

	var req ApplicationReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	application, err := h.campaignService.ReviewApplication(c.Request.Context(), reviewerID, applicationID, req.Decision, req.Notes)
	if err != nil {
		switch err {
		case domain.ErrBadRequest:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown decision, expected pending, approved or rejected",
			})
		case domain.ErrPermissionDenied:
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin capability required",
			})
		case domain.ErrApplicationNotFound:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Application not found",
			})
		case domain.ErrNotesRequired:
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Rejection requires notes explaining the decision",
			})
		case domain.ErrConcurrentModification:
			c.JSON(http.StatusConflict, gin.H{
				"error": "Application was reviewed by someone else, reload and retry",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to review application",
			})
		}
		return
	}

	c.JSON(http.StatusOK, application.ToResponse())
}
