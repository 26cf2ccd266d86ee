package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codequest-platform/backend/internal/domain"
	"github.com/codequest-platform/backend/internal/middleware"
	"github.com/codequest-platform/backend/internal/service"
)

// SubmissionHandler handles daily challenge submissions
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// Submit records the authenticated user's solution for today's challenge
// POST /api/challenge/submissions
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req domain.SubmitSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	submission, err := h.submissionService.SubmitDailySolution(c.Request.Context(), userID, &req)
	if err != nil {
		switch err {
		case domain.ErrAlreadySubmitted:
			c.JSON(http.StatusConflict, gin.H{
				"error": "You have already submitted a solution today",
			})
		case domain.ErrChallengeNotAvailable:
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No challenge is available today",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to submit solution",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, submission.ToResponse())
}

// GetMine returns the authenticated user's submission for a date
// GET /api/challenge/submissions/mine?date=2024-01-01
func (h *SubmissionHandler) GetMine(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		date = domain.Today()
	} else if _, err := domain.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
		return
	}

	submission, err := h.submissionService.GetOwnSubmission(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve submission",
		})
		return
	}

	if submission == nil {
		c.JSON(http.StatusOK, gin.H{
			"submission": nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission.ToResponse(),
	})
}
