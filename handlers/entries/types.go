package entries

import (
	"errors"
	"net/http"

	"api/services"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrChallengeNotFoundMsg  = "Challenge not found"
	ErrEntryNotFoundMsg      = "Entry not found"
	ErrInvalidRequest        = "Invalid request data"
	ErrNotAcceptingMsg       = "Challenge is not accepting entries"
	ErrDuplicateEntryMsg     = "You already have an entry in this challenge"
	ErrFailedSubmitEntry     = "Failed to submit entry"
	ErrFailedFetchEntries    = "Failed to fetch entries"
	ErrFailedModerateEntry   = "Failed to update entry moderation"
)

// Handler carries the services the entry endpoints operate on.
type Handler struct {
	entries *services.EntryService
}

func NewHandler(entries *services.EntryService) *Handler {
	return &Handler{entries: entries}
}

// SubmitEntryRequest model for submitting an entry
type SubmitEntryRequest struct {
	ImageRef string `json:"image_ref" binding:"required"`
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	Location string `json:"location"`
	Camera   string `json:"camera"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondWithServiceError maps a business error kind onto an HTTP status.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrChallengeNotFound):
		respondWithError(c, http.StatusNotFound, ErrChallengeNotFoundMsg)
	case errors.Is(err, services.ErrEntryNotFound):
		respondWithError(c, http.StatusNotFound, ErrEntryNotFoundMsg)
	case errors.Is(err, services.ErrChallengeNotAcceptingEntries):
		respondWithError(c, http.StatusBadRequest, ErrNotAcceptingMsg)
	case errors.Is(err, services.ErrDuplicateEntry):
		respondWithError(c, http.StatusConflict, ErrDuplicateEntryMsg)
	default:
		respondWithError(c, http.StatusInternalServerError, fallback)
	}
}
