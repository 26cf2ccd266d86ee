package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codequest-platform/backend/internal/service"
)

// ChallengeHandler serves the problem of the day
type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

// GetToday returns the pinned daily challenge, fetching and pinning one on
// first access. 404 means no challenge today: the source was unreachable or
// had nothing usable, and clients must not get a placeholder instead.
// GET /api/challenge/today
func (h *ChallengeHandler) GetToday(c *gin.Context) {
	problem, err := h.challengeService.GetDailyChallenge(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve daily challenge",
		})
		return
	}

	if problem == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No challenge is available today",
		})
		return
	}

	c.JSON(http.StatusOK, problem.ToResponse())
}
