package main

import (
	"net/http"
	"time"

	"pollroom-backend/internal/config"
	"pollroom-backend/internal/database"
	"pollroom-backend/internal/handlers"
	"pollroom-backend/internal/middleware"
	"pollroom-backend/internal/services"
	"pollroom-backend/internal/session"
	"pollroom-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Infoln("no .env file found, using environment")
	}

	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	registry := session.NewRegistry(rdb, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	limiter := session.NewRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)

	hub := ws.NewHub()

	roomService := services.NewRoomService(db, time.Duration(cfg.RoomTTLHours)*time.Hour)
	pollService := services.NewPollService(db, roomService)
	voteService := services.NewVoteService(db, pollService, registry)
	resultService := services.NewResultService(db, pollService)

	roomHandler := handlers.NewRoomHandler(roomService, registry, hub)
	pollHandler := handlers.NewPollHandler(pollService, hub)
	voteHandler := handlers.NewVoteHandler(voteService, resultService, hub)
	wsHandler := handlers.NewWSHandler(hub, roomService, pollService)
	sessionHandler := handlers.NewSessionHandler(registry)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.SessionHeader},
		ExposeHeaders:    []string{middleware.SessionHeader},
		AllowCredentials: true,
	}))
	r.Use(middleware.Session())
	r.Use(middleware.RateLimit(limiter))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.GET("/session", sessionHandler.GetSession)

	r.GET("/ws/rooms/:code", wsHandler.HandleRoomWebSocket)
	r.GET("/ws/polls/:id", wsHandler.HandlePollWebSocket)

	r.POST("/rooms", roomHandler.CreateRoom)
	r.GET("/rooms/:code", roomHandler.GetRoom)
	r.DELETE("/rooms/:code", roomHandler.DeleteRoom)
	r.GET("/rooms/:code/polls", roomHandler.ListPolls)

	r.POST("/polls", pollHandler.CreatePoll)
	r.GET("/polls/:id", pollHandler.GetPoll)
	r.POST("/polls/:id/close", pollHandler.ClosePoll)
	r.POST("/polls/:id/vote", voteHandler.SubmitVote)
	r.GET("/polls/:id/results", voteHandler.GetResults)

	log.Infof("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
