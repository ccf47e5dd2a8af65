package challenges

import (
	"api/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to challenges
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	// Public routes
	challenges := r.Group("/challenges")
	{
		challenges.GET("/active", h.GetActiveChallenges)
		challenges.GET("/:id", middleware.OptionalAuthMiddleware(), h.GetChallenge)
		challenges.GET("/:id/leaderboard", h.GetLeaderboard)
		challenges.GET("/:id/ws", h.ChallengeWebSocket)
	}

	// Administrative routes
	admin := r.Group("/admin/challenges")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/", h.ListChallenges)
		admin.POST("/", h.CreateChallenge)
		admin.PATCH("/:id", h.UpdateChallenge)
		admin.DELETE("/:id", h.DeleteChallenge)
		admin.POST("/:id/winners", h.SelectWinners)
		admin.GET("/:id/export", h.ExportChallengeResults)
	}
}
