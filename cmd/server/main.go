package main

import (
	"log"
	"net/http"

	"github.com/jFurkan/katil-oyunu-sub000/internal/config"
	"github.com/jFurkan/katil-oyunu-sub000/internal/database"
	"github.com/jFurkan/katil-oyunu-sub000/internal/game"
	"github.com/jFurkan/katil-oyunu-sub000/internal/handlers"
	"github.com/jFurkan/katil-oyunu-sub000/internal/limiter"
	"github.com/jFurkan/katil-oyunu-sub000/internal/middleware"
	"github.com/jFurkan/katil-oyunu-sub000/internal/services"
	"github.com/jFurkan/katil-oyunu-sub000/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()
	clock := clockwork.NewRealClock()
	machine := game.NewMachine(hub, clock)
	rateLimiter := limiter.New(clock)

	abuseGuard := services.NewAbuseGuard(db)
	authService := services.NewAuthService(cfg.AdminPassword, cfg.JWTSecret)
	userService := services.NewUserService(db)
	teamService := services.NewTeamService(db)
	boardService := services.NewBoardService(db)
	characterService := services.NewCharacterService(db)
	badgeService := services.NewBadgeService(db)
	creditService := services.NewCreditService(db)
	chatService := services.NewChatService(db)
	generalClueService := services.NewGeneralClueService(db)

	stop := make(chan struct{})
	defer close(stop)
	go rateLimiter.Run(stop)
	go abuseGuard.Run(stop)

	socketHandler := handlers.NewSocketHandler(
		hub, machine, rateLimiter, abuseGuard,
		authService, userService, teamService, boardService,
		characterService, badgeService, creditService,
		chatService, generalClueService,
	)
	uploadHandler := handlers.NewUploadHandler(userService, cfg.UploadDir)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/uploads", cfg.UploadDir)
	r.GET("/ws", socketHandler.HandleWS)

	api := r.Group("/api/v1")
	{
		api.POST("/upload", uploadHandler.UploadProfilePhoto)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(authService))
		{
			admin.POST("/upload", uploadHandler.UploadAdminPhoto)
			admin.DELETE("/upload", uploadHandler.DeletePhoto)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
