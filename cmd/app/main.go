package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "youguo-backend/docs"
	"youguo-backend/internal/common/config"
	"youguo-backend/internal/common/logger"
	"youguo-backend/internal/common/middleware"
	adminhttp "youguo-backend/internal/features/admin/delivery/http"
	adminservice "youguo-backend/internal/features/admin/service"
	farmhttp "youguo-backend/internal/features/farm/delivery/http"
	farmservice "youguo-backend/internal/features/farm/service"
	taskhttp "youguo-backend/internal/features/task/delivery/http"
	taskservice "youguo-backend/internal/features/task/service"
	userhttp "youguo-backend/internal/features/user/delivery/http"
	userservice "youguo-backend/internal/features/user/service"
	"youguo-backend/internal/platform/gemini"
	redisplatform "youguo-backend/internal/platform/redis"
	"youguo-backend/internal/store"
)

// @title           YouGuo Backend API
// @version         1.0
// @description     Gamified productivity service: life tasks earn points, points grow the farm, produce redeems real goods.

// @BasePath  /api/v1

// @securityDefinitions.apikey GoogleIDToken
// @in header
// @name Authorization
// @description Google ID token, sent as "Bearer <token>"

// @tag.name auth
// @tag.description Sign-in with a Google identity

// @tag.name users
// @tag.description User profiles

// @tag.name tasks
// @tag.description Life tasks and graded sub-tasks

// @tag.name shop
// @tag.description Seed catalog

// @tag.name farm
// @tag.description Plots, inventory, produce and the exchange

// @tag.name admin
// @tag.description Moderation and system statistics

func main() {
	cfg := config.Load()

	logger.Init("youguo-backend", cfg.Debug)
	logger.Info().
		Bool("debug", cfg.Debug).
		Str("storage_backend", cfg.Storage.Backend).
		Msg("starting youguo backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, readyCheck, cleanup := openStorage(ctx, cfg)
	defer cleanup()

	st, err := store.New(ctx, storage, cfg.Auth.AdminEmail)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	logger.Info().Msg("store initialized")

	textgen := gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		Timeout: time.Duration(cfg.Gemini.TimeoutSec) * time.Second,
	})
	textTimeout := time.Duration(cfg.Gemini.TimeoutSec) * time.Second

	userSvc := userservice.NewUserService(st)
	taskSvc := taskservice.NewTaskService(st, textgen, textTimeout)
	farmSvc := farmservice.NewFarmService(st, textgen, textTimeout)
	adminSvc := adminservice.NewAdminService(st)

	logger.Info().Msg("services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, userSvc, taskSvc, farmSvc, adminSvc, readyCheck)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exited")
}

// openStorage selects the durable backend. The ready check reports whether
// the backend is reachable; the file backend is always ready.
func openStorage(ctx context.Context, cfg *config.Config) (store.Storage, func(context.Context) error, func()) {
	switch cfg.Storage.Backend {
	case "file":
		logger.Info().Str("path", cfg.Storage.FilePath).Msg("using file storage")
		return store.NewFileStorage(cfg.Storage.FilePath),
			func(context.Context) error { return nil },
			func() {}
	case "redis":
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		client, err := redisplatform.Open(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Str("addr", addr).Msg("failed to connect to redis")
		}
		logger.Info().Str("addr", addr).Msg("redis connection established")
		return store.NewRedisStorage(client),
			func(ctx context.Context) error { return client.Ping(ctx).Err() },
			func() { _ = client.Close() }
	default:
		logger.Fatal().Str("backend", cfg.Storage.Backend).Msg("unknown storage backend")
		return nil, nil, nil
	}
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	userSvc userservice.UserService,
	taskSvc taskservice.TaskService,
	farmSvc farmservice.FarmService,
	adminSvc adminservice.AdminService,
	readyCheck func(context.Context) error,
) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authenticate(cfg.Auth.GoogleClientID))
	v1.Use(middleware.SyncUser(userSvc))
	v1.Use(middleware.CheckBanned())

	userhttp.NewUserHandler(userSvc).RegisterRoutes(v1)
	taskhttp.NewTaskHandler(taskSvc).RegisterRoutes(v1)
	farmhttp.NewFarmHandler(farmSvc).RegisterRoutes(v1)
	adminhttp.NewAdminHandler(adminSvc).RegisterRoutes(v1)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "youguo-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := readyCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "storage unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "youguo-backend",
		})
	})
}
