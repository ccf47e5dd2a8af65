package challenges

import (
	"net/http"
	"strconv"

	"api/services"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns the ranked standings of a challenge
// @Summary Get a challenge leaderboard
// @Description Get approved entries ranked by vote count descending, earliest submission first on ties; ranks are dense and 1-based
// @Tags Challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param limit query int false "Maximum rows to return"
// @Success 200 {array} services.LeaderboardRow
// @Failure 404 {object} map[string]string
// @Router /challenges/{id}/leaderboard [get]
func (h *Handler) GetLeaderboard(c *gin.Context) {
	ch, err := h.challenges.Get(c.Param("id"))
	if err != nil {
		respondWithServiceError(c, err, ErrFailedFetchLeaderboard)
		return
	}

	limit := services.DefaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
			return
		}
		limit = parsed
	}

	rows, err := h.leaderboard.Rank(ch.ID, limit)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchLeaderboard)
		return
	}
	c.JSON(http.StatusOK, rows)
}
