package challenges

import (
	"log"
	"net/http"

	"api/middleware"
	"api/services"

	"github.com/gin-gonic/gin"
)

// GetActiveChallenges lists the challenges members can currently see
// @Summary List active challenges
// @Description Get upcoming (within the lead window), active, and voting challenges ordered by start date
// @Tags Challenges
// @Accept json
// @Produce json
// @Success 200 {array} models.Challenge
// @Failure 500 {object} map[string]string
// @Router /challenges/active [get]
func (h *Handler) GetActiveChallenges(c *gin.Context) {
	// Catch up phases lazily so a freshly-expired boundary is reflected
	// in what the member sees.
	if _, err := h.engine.AdvanceAll(); err != nil {
		log.Printf("Lazy phase advance failed: %v", err)
	}

	challenges, err := h.challenges.ListActive()
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchChallenges)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// GetChallenge returns one challenge with the caller's own entry and votes
// @Summary Get a challenge
// @Description Get a challenge by id; when authenticated, includes the caller's entry and voted entry ids
// @Tags Challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} ChallengeDetailResponse
// @Failure 404 {object} map[string]string
// @Router /challenges/{id} [get]
func (h *Handler) GetChallenge(c *gin.Context) {
	ch, err := h.challenges.Get(c.Param("id"))
	if err != nil {
		respondWithServiceError(c, err, ErrFailedFetchChallenges)
		return
	}
	if _, err := h.engine.Advance(ch); err != nil {
		log.Printf("Lazy phase advance failed for %s: %v", ch.ID, err)
	}

	detail := ChallengeDetailResponse{Challenge: ch}
	if participantID := c.GetString("participant_id"); participantID != "" {
		if entry, err := h.entries.GetParticipantEntry(ch.ID, participantID); err == nil && entry != nil {
			detail.MyEntry = entry
		}
		if ids, err := h.votes.VotedEntryIDs(ch.ID, participantID); err == nil {
			detail.VotedEntryIDs = ids
		}
	}
	c.JSON(http.StatusOK, detail)
}

// ListChallenges lists every challenge for administrators
// @Summary List all challenges
// @Description Get all challenges including completed ones, newest first
// @Tags Challenges
// @Accept json
// @Produce json
// @Success 200 {array} models.Challenge
// @Failure 401 {object} map[string]string
// @Router /admin/challenges [get]
// @Security Bearer
func (h *Handler) ListChallenges(c *gin.Context) {
	if _, err := h.engine.AdvanceAll(); err != nil {
		log.Printf("Lazy phase advance failed: %v", err)
	}

	challenges, err := h.challenges.ListAll()
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchChallenges)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// CreateChallenge creates a new challenge
// @Summary Create a challenge
// @Description Create a new photo challenge with an ordered time window
// @Tags Challenges
// @Accept json
// @Produce json
// @Param request body CreateChallengeRequest true "Challenge details"
// @Success 201 {object} models.Challenge
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/challenges [post]
// @Security Bearer
func (h *Handler) CreateChallenge(c *gin.Context) {
	admin, err := middleware.GetParticipantFromRequest(c)
	if err != nil {
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	ch, err := h.challenges.Create(services.CreateChallengeInput{
		Theme:       req.Theme,
		Description: req.Description,
		Rules:       req.Rules,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		VotingEnd:   req.VotingEnd,
		Featured:    req.Featured,
	})
	if err != nil {
		respondWithServiceError(c, err, ErrFailedCreateChallenge)
		return
	}

	log.Printf("Challenge %s created by %s", ch.ID, admin)
	c.JSON(http.StatusCreated, ch)
}

// UpdateChallenge edits challenge metadata
// @Summary Update a challenge
// @Description Edit theme, description, rules, featured flag, and future time boundaries; the phase itself is never editable
// @Tags Challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body UpdateChallengeRequest true "Fields to update"
// @Success 200 {object} models.Challenge
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/challenges/{id} [patch]
// @Security Bearer
func (h *Handler) UpdateChallenge(c *gin.Context) {
	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	ch, err := h.challenges.Update(c.Param("id"), services.UpdateChallengeInput{
		Theme:       req.Theme,
		Description: req.Description,
		Rules:       req.Rules,
		Featured:    req.Featured,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		VotingEnd:   req.VotingEnd,
	})
	if err != nil {
		respondWithServiceError(c, err, ErrFailedUpdateChallenge)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// DeleteChallenge removes a challenge and everything under it
// @Summary Delete a challenge
// @Description Delete a challenge; its entries and their votes are removed in the same transaction
// @Tags Challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/challenges/{id} [delete]
// @Security Bearer
func (h *Handler) DeleteChallenge(c *gin.Context) {
	if err := h.challenges.Delete(c.Param("id")); err != nil {
		respondWithServiceError(c, err, ErrFailedDeleteChallenge)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Challenge deleted"})
}
