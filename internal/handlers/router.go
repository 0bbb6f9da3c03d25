package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prime-slot-backend/internal/middleware"
	"prime-slot-backend/internal/services"
)

type RouterConfig struct {
	Engine      *services.GameEngine
	JWT         *services.JWTService
	WebSocket   *WebSocketHandler
	DrawLimiter middleware.RateLimiter
	LimitWindow time.Duration
	AdminToken  string
	Metrics     http.Handler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		router.Use(gin.Logger())
	}

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Token")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	authHandler := NewAuthHandler(cfg.JWT)
	userHandler := NewUserHandler(cfg.Engine)
	gameHandler := NewGameHandler(cfg.Engine)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	router.POST("/auth/session", authHandler.CreateSession)
	router.GET("/leaderboard", gameHandler.GetLeaderboard)
	router.GET("/globals", gameHandler.GetGlobals)
	router.GET("/draws/recent", gameHandler.GetRecentDraws)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWT))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.POST("/users", userHandler.CreateUser)
		protected.GET("/transactions", userHandler.GetTransactions)

		draw := []gin.HandlerFunc{gameHandler.Draw}
		if cfg.DrawLimiter != nil {
			draw = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(cfg.DrawLimiter, "draw", cfg.LimitWindow)}, draw...)
		}
		protected.POST("/draw", draw...)
		protected.GET("/draws", gameHandler.GetDrawHistory)

		protected.POST("/points/purchase", gameHandler.PurchasePoints)
		protected.POST("/won-points/trade", gameHandler.TradeWonPoints)
		protected.POST("/lamports/claim", gameHandler.ClaimLamports)

		if cfg.WebSocket != nil {
			protected.GET("/ws", cfg.WebSocket.HandleWebSocket)
		}
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AdminMiddleware(cfg.AdminToken))
	{
		admin.POST("/initialize", gameHandler.Initialize)
		admin.POST("/airdrop", gameHandler.Airdrop)
	}

	return router
}
