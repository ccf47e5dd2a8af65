package entries

import (
	"log"
	"net/http"

	"api/middleware"
	"api/services"
	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// SubmitEntry stores the caller's single entry for a challenge
// @Summary Submit an entry
// @Description Submit the authenticated participant's entry to an active challenge; one entry per participant per challenge
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body SubmitEntryRequest true "Entry details"
// @Success 201 {object} models.Entry
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /challenges/{id}/entries [post]
// @Security Bearer
func (h *Handler) SubmitEntry(c *gin.Context) {
	participantID, err := middleware.GetParticipantFromRequest(c)
	if err != nil {
		return
	}

	var req SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	entry, err := h.entries.Submit(c.Param("id"), participantID, services.SubmitEntryInput{
		ImageRef: req.ImageRef,
		Title:    req.Title,
		Caption:  req.Caption,
		Location: req.Location,
		Camera:   req.Camera,
	})
	if err != nil {
		respondWithServiceError(c, err, ErrFailedSubmitEntry)
		return
	}

	log.Printf("Entry %s submitted to challenge %s", entry.ID, entry.ChallengeID)
	c.JSON(http.StatusCreated, entry)
}

// GetMyEntry returns the caller's entry for a challenge
// @Summary Get own entry
// @Description Get the authenticated participant's entry for a challenge, if any
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} models.Entry
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /challenges/{id}/entries/mine [get]
// @Security Bearer
func (h *Handler) GetMyEntry(c *gin.Context) {
	participantID, err := middleware.GetParticipantFromRequest(c)
	if err != nil {
		return
	}

	entry, err := h.entries.GetParticipantEntry(c.Param("id"), participantID)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchEntries)
		return
	}
	if entry == nil {
		respondWithError(c, http.StatusNotFound, ErrEntryNotFoundMsg)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ListChallengeEntries returns a challenge's entries for moderation
// @Summary List challenge entries
// @Description List a challenge's entries, optionally filtered by moderation state
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param approved query bool false "Filter by moderation state"
// @Success 200 {array} models.Entry
// @Failure 401 {object} map[string]string
// @Router /admin/challenges/{id}/entries [get]
// @Security Bearer
func (h *Handler) ListChallengeEntries(c *gin.Context) {
	var approved *bool
	if raw, ok := c.GetQuery("approved"); ok {
		value := raw == "true"
		approved = &value
	}

	list, err := h.entries.ListForChallenge(c.Param("id"), approved)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchEntries)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ApproveEntry passes an entry through the moderation gate
// @Summary Approve an entry
// @Description Make an entry visible to voters and the leaderboard
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/entries/{id}/approve [put]
// @Security Bearer
func (h *Handler) ApproveEntry(c *gin.Context) {
	if err := h.entries.Approve(c.Param("id")); err != nil {
		respondWithServiceError(c, err, ErrFailedModerateEntry)
		return
	}
	response.Message(c, http.StatusOK, "Entry approved")
}

// RejectEntry hides an entry behind the moderation gate
// @Summary Reject an entry
// @Description Hide an entry from voters and the leaderboard
// @Tags Entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/entries/{id}/reject [put]
// @Security Bearer
func (h *Handler) RejectEntry(c *gin.Context) {
	if err := h.entries.Reject(c.Param("id")); err != nil {
		respondWithServiceError(c, err, ErrFailedModerateEntry)
		return
	}
	response.Message(c, http.StatusOK, "Entry rejected")
}
