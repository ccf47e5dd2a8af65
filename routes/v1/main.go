package v1

import (
	"api/cache"
	"api/handlers/challenges"
	"api/handlers/entries"
	"api/handlers/votes"
	"api/middleware"
	"api/services"

	"github.com/gin-gonic/gin"
)

// Deps are the constructed services the route handlers close over.
type Deps struct {
	Challenges  *services.ChallengeService
	Entries     *services.EntryService
	Votes       *services.VoteService
	Leaderboard *services.LeaderboardService
	Winners     *services.WinnerService
	Engine      *services.TransitionEngine
	Cache       *cache.Cache
}

// Register the endpoints for the v1 API
func Register(r *gin.Engine, deps Deps) {
	v1 := r.Group("/api/v1")

	// Add metrics middleware to all routes
	v1.Use(middleware.MetricsMiddleware())

	rateLimiter := middleware.NewRateLimiter(10000, 1500)
	v1.Use(middleware.RateLimiterMiddleware(rateLimiter))

	RegisterPingRoutes(v1)
	RegisterMetricsRoutes(v1)
	RegisterSwaggerRoutes(v1)

	challengeHandler := challenges.NewHandler(
		deps.Challenges, deps.Entries, deps.Votes, deps.Leaderboard, deps.Winners, deps.Engine)
	challenges.RegisterRoutes(v1, challengeHandler)
	entries.RegisterRoutes(v1, entries.NewHandler(deps.Entries))
	votes.RegisterRoutes(v1, votes.NewHandler(deps.Votes, deps.Leaderboard))
}
