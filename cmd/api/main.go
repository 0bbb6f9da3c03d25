package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"prime-slot-backend/internal/audit"
	"prime-slot-backend/internal/chain"
	"prime-slot-backend/internal/config"
	"prime-slot-backend/internal/handlers"
	"prime-slot-backend/internal/metrics"
	"prime-slot-backend/internal/middleware"
	"prime-slot-backend/internal/services"
	"prime-slot-backend/internal/store"
)

func main() {
	logger := logrus.New()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Env == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	collector := metrics.NewCollector("prime_slot")

	var (
		st      store.Store
		limiter middleware.RateLimiter
	)
	switch cfg.StoreBackend {
	case config.BackendRedis:
		redisStore, err := store.NewRedisStore(cfg)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		st = redisStore
		limiter = middleware.NewRedisLimiter(redisStore, cfg.DrawRateLimit, store.RateLimitWindow)
	default:
		st = store.NewMemoryStore()
		limiter = middleware.NewLocalLimiter(cfg.DrawRateLimit, store.RateLimitWindow)
	}
	defer st.Close()

	clock := chain.NewSystemClock(cfg.Genesis(), cfg.SlotDuration)

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithMetrics(collector),
		services.WithAirdrop(cfg.AllowAirdrop),
	}
	if cfg.DatabaseURL != "" {
		db, err := audit.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to open audit database: %v", err)
		}
		recorder := audit.NewSQLRecorder(db)
		defer recorder.Close()
		if err := recorder.EnsureSchema(context.Background()); err != nil {
			logger.Fatalf("Failed to prepare audit schema: %v", err)
		}
		opts = append(opts, services.WithRecorder(recorder))
	}

	gameEngine := services.NewGameEngine(st, clock, services.NewOracle(cfg, clock), opts...)
	wsHandler := handlers.NewWebSocketHandler(gameEngine, logger, collector.RecordWebsocketSessions)
	gameEngine.SetBroadcaster(wsHandler)

	router := handlers.NewRouter(handlers.RouterConfig{
		Engine:      gameEngine,
		JWT:         services.NewJWTService(cfg),
		WebSocket:   wsHandler,
		DrawLimiter: limiter,
		LimitWindow: store.RateLimitWindow,
		AdminToken:  cfg.AdminToken,
		Metrics:     collector.Handler(),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":      cfg.Port,
			"store":     cfg.StoreBackend,
			"primality": cfg.Primality,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	logger.Info("Server stopped")
}
