package challenges

import (
	"log"
	"net/http"

	"api/services"

	"github.com/gin-gonic/gin"
)

// SelectWinners stamps a completed challenge's winners
// @Summary Select challenge winners
// @Description Stamp up to three entries as winners of a completed challenge; re-running overwrites the previous selection
// @Tags Challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body SelectWinnersRequest true "Entry ids per place"
// @Success 200 {array} models.Entry
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/challenges/{id}/winners [post]
// @Security Bearer
func (h *Handler) SelectWinners(c *gin.Context) {
	challengeID := c.Param("id")

	var req SelectWinnersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	if req.First == req.Second || req.First == req.Third ||
		(req.Second != "" && req.Second == req.Third) {
		respondWithError(c, http.StatusBadRequest, ErrDuplicateWinnerPlaces)
		return
	}

	sel := services.WinnerSelection{First: req.First, Second: req.Second, Third: req.Third}
	if err := h.winners.SelectWinners(challengeID, sel); err != nil {
		respondWithServiceError(c, err, ErrFailedSelectWinners)
		return
	}

	winners, err := h.winners.Winners(challengeID)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedSelectWinners)
		return
	}

	log.Printf("Winners selected for challenge %s", challengeID)
	c.JSON(http.StatusOK, winners)
}
