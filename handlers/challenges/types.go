package challenges

import (
	"errors"
	"net/http"
	"time"

	"api/services"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrChallengeNotFoundMsg   = "Challenge not found"
	ErrInvalidRequest         = "Invalid request data"
	ErrInvalidWindowMsg       = "Challenge dates must satisfy start < end < voting end"
	ErrFailedFetchChallenges  = "Failed to fetch challenges"
	ErrFailedCreateChallenge  = "Failed to create challenge"
	ErrFailedUpdateChallenge  = "Failed to update challenge"
	ErrFailedDeleteChallenge  = "Failed to delete challenge"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedSelectWinners    = "Failed to select winners"
	ErrFailedExportResults    = "Failed to export results"
	ErrDuplicateWinnerPlaces  = "The same entry cannot take more than one place"
)

// Handler carries the services the challenge endpoints operate on.
type Handler struct {
	challenges  *services.ChallengeService
	entries     *services.EntryService
	votes       *services.VoteService
	leaderboard *services.LeaderboardService
	winners     *services.WinnerService
	engine      *services.TransitionEngine
}

func NewHandler(
	challenges *services.ChallengeService,
	entries *services.EntryService,
	votes *services.VoteService,
	leaderboard *services.LeaderboardService,
	winners *services.WinnerService,
	engine *services.TransitionEngine,
) *Handler {
	return &Handler{
		challenges:  challenges,
		entries:     entries,
		votes:       votes,
		leaderboard: leaderboard,
		winners:     winners,
		engine:      engine,
	}
}

// CreateChallengeRequest model for creating a challenge
type CreateChallengeRequest struct {
	Theme       string    `json:"theme" binding:"required"`
	Description string    `json:"description"`
	Rules       string    `json:"rules"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	VotingEnd   time.Time `json:"voting_end" binding:"required"`
	Featured    bool      `json:"featured"`
}

// UpdateChallengeRequest model for editing challenge metadata
type UpdateChallengeRequest struct {
	Theme       *string    `json:"theme"`
	Description *string    `json:"description"`
	Rules       *string    `json:"rules"`
	Featured    *bool      `json:"featured"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	VotingEnd   *time.Time `json:"voting_end"`
}

// SelectWinnersRequest model for stamping a completed challenge's winners
type SelectWinnersRequest struct {
	First  string `json:"first" binding:"required"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// ChallengeDetailResponse is the member-facing view of one challenge
type ChallengeDetailResponse struct {
	Challenge      interface{} `json:"challenge"`
	MyEntry        interface{} `json:"my_entry,omitempty"`
	VotedEntryIDs  []string    `json:"voted_entry_ids,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondWithServiceError maps a business error kind onto an HTTP status,
// falling back to 500 for storage failures.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrChallengeNotFound):
		respondWithError(c, http.StatusNotFound, ErrChallengeNotFoundMsg)
	case errors.Is(err, services.ErrInvalidWindow):
		respondWithError(c, http.StatusBadRequest, ErrInvalidWindowMsg)
	case errors.Is(err, services.ErrChallengeNotCompleted):
		respondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrEntryNotInChallenge):
		respondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrIllegalTransition):
		respondWithError(c, http.StatusConflict, err.Error())
	default:
		respondWithError(c, http.StatusInternalServerError, fallback)
	}
}
