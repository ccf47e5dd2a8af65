package main

import (
	"context"
	"log"
	"strings"
	"time"

	"api/cache"
	"api/config"
	"api/database"
	"api/metrics"
	v1 "api/routes/v1"
	"api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Aperture Photo Challenge API
// @version 1.0
// @description Community photo challenge and voting API
// @BasePath /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	config.Load()

	db, err := database.Connect()
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	c := cache.New(config.RedisAddr)
	if c.Enabled() {
		log.Println("Leaderboard cache enabled at", config.RedisAddr)
	}

	engine := services.NewTransitionEngine(db)
	deps := v1.Deps{
		Challenges:  services.NewChallengeService(db, config.UpcomingLead),
		Entries:     services.NewEntryService(db, engine, c),
		Votes:       services.NewVoteService(db, engine, c),
		Leaderboard: services.NewLeaderboardService(db, c),
		Winners:     services.NewWinnerService(db, c),
		Engine:      engine,
		Cache:       c,
	}

	// Catch up anything that expired while the API was down, then keep
	// phases current in the background.
	if n, err := engine.AdvanceAll(); err != nil {
		log.Printf("Initial phase transition run failed: %v", err)
	} else if n > 0 {
		log.Printf("Advanced %d challenge phase(s) at startup", n)
	}
	go engine.Run(context.Background(), config.PhaseTick)

	metrics.StartSystemCollector(15 * time.Second)

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if config.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(config.AllowedOrigins, ",")
		corsConfig.AllowCredentials = true
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig))

	v1.Register(r, deps)

	log.Println("Listening on port", config.Port)
	if err := r.Run(":" + config.Port); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}
