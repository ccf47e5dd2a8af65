package votes

import (
	"errors"
	"net/http"

	"api/services"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrEntryNotFoundMsg    = "Entry not found"
	ErrInvalidRequest      = "Invalid request data"
	ErrVotingClosedMsg     = "Challenge is not open for voting"
	ErrSelfVoteMsg         = "You cannot vote for your own entry"
	ErrFailedToggleVote    = "Failed to toggle vote"
	ErrFailedFetchVotes    = "Failed to fetch votes"
)

// Handler carries the services the vote endpoints operate on.
type Handler struct {
	votes       *services.VoteService
	leaderboard *services.LeaderboardService
}

func NewHandler(votes *services.VoteService, leaderboard *services.LeaderboardService) *Handler {
	return &Handler{votes: votes, leaderboard: leaderboard}
}

// ToggleVoteRequest model for toggling a vote
type ToggleVoteRequest struct {
	EntryID string `json:"entry_id" binding:"required"`
}

// EntryVotesResponse reports the ledger state of one entry for the caller
type EntryVotesResponse struct {
	EntryID   string `json:"entry_id"`
	VoteCount int64  `json:"vote_count"`
	HasVoted  bool   `json:"has_voted"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondWithServiceError maps a business error kind onto an HTTP status.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrEntryNotFound):
		respondWithError(c, http.StatusNotFound, ErrEntryNotFoundMsg)
	case errors.Is(err, services.ErrVotingClosed):
		respondWithError(c, http.StatusBadRequest, ErrVotingClosedMsg)
	case errors.Is(err, services.ErrSelfVoteForbidden):
		respondWithError(c, http.StatusBadRequest, ErrSelfVoteMsg)
	default:
		respondWithError(c, http.StatusInternalServerError, fallback)
	}
}
