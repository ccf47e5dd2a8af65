package entries

import (
	"api/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to entries
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	member := r.Group("/challenges/:id/entries")
	member.Use(middleware.AuthMiddleware())
	{
		member.POST("/", h.SubmitEntry)
		member.GET("/mine", h.GetMyEntry)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/challenges/:id/entries", h.ListChallengeEntries)
		admin.PUT("/entries/:id/approve", h.ApproveEntry)
		admin.PUT("/entries/:id/reject", h.RejectEntry)
	}
}
