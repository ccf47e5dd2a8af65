package votes

import (
	"log"
	"net/http"

	"api/middleware"
	"api/realtime"
	"api/services"

	"github.com/gin-gonic/gin"
)

// ToggleVote flips the caller's vote on an entry
// @Summary Toggle a vote
// @Description Cast the authenticated participant's vote on an entry, or withdraw it if already cast
// @Tags Votes
// @Accept json
// @Produce json
// @Param request body ToggleVoteRequest true "Entry to toggle"
// @Success 200 {object} services.ToggleResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /votes/toggle [post]
// @Security Bearer
func (h *Handler) ToggleVote(c *gin.Context) {
	voterID, err := middleware.GetParticipantFromRequest(c)
	if err != nil {
		return
	}

	var req ToggleVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	result, err := h.votes.Toggle(req.EntryID, voterID)
	if err != nil {
		respondWithServiceError(c, err, ErrFailedToggleVote)
		return
	}

	// Push the new standings to anyone watching this challenge live.
	if rows, err := h.leaderboard.Rank(result.ChallengeID, services.DefaultLeaderboardLimit); err == nil {
		realtime.BroadcastLeaderboard(realtime.LeaderboardUpdate{
			ChallengeID: result.ChallengeID,
			Rows:        rows,
		})
	} else {
		log.Printf("Failed to compute leaderboard for broadcast: %v", err)
	}

	c.JSON(http.StatusOK, result)
}

// GetEntryVotes reports an entry's vote count and the caller's vote state
// @Summary Get entry votes
// @Description Get an entry's ledger count and whether the caller has voted for it
// @Tags Votes
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} EntryVotesResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /entries/{id}/votes [get]
// @Security Bearer
func (h *Handler) GetEntryVotes(c *gin.Context) {
	voterID, err := middleware.GetParticipantFromRequest(c)
	if err != nil {
		return
	}
	entryID := c.Param("id")

	count, err := h.votes.CountFor(entryID)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchVotes)
		return
	}
	hasVoted, err := h.votes.HasVoted(entryID, voterID)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedFetchVotes)
		return
	}

	c.JSON(http.StatusOK, EntryVotesResponse{
		EntryID:   entryID,
		VoteCount: count,
		HasVoted:  hasVoted,
	})
}
