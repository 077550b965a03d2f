package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkurosawa/task-manager-api/internal/cache"
	"github.com/mkurosawa/task-manager-api/internal/config"
	"github.com/mkurosawa/task-manager-api/internal/database"
	"github.com/mkurosawa/task-manager-api/internal/handlers"
	"github.com/mkurosawa/task-manager-api/internal/logger"
	"github.com/mkurosawa/task-manager-api/internal/middleware"
	"github.com/mkurosawa/task-manager-api/internal/repository"
	"github.com/mkurosawa/task-manager-api/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.GinMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	var taskCache *cache.TaskCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		taskCache = cache.NewTaskCache(client)
		log.Info("redis cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	blobRepo := repository.NewBlobRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, log)
	taskService := services.NewTaskService(taskRepo, userRepo, blobRepo, taskCache, log)
	attachmentService := services.NewAttachmentService(taskRepo, blobRepo, taskCache, log)
	userService := services.NewUserService(userRepo, taskRepo, taskCache, log)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)
	userHandler := handlers.NewUserHandler(userService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth([]byte(cfg.JWTSecret))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		tasks := api.Group("/tasks", requireAuth)
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.GET("/:taskId", taskHandler.Get)
			tasks.PUT("/:taskId", taskHandler.Update)
			tasks.DELETE("/:taskId", taskHandler.Delete)

			tasks.POST("/:taskId/attachments", attachmentHandler.Upload)
			tasks.GET("/:taskId/attachments/:attachmentId", attachmentHandler.Download)
			tasks.DELETE("/:taskId/attachments/:attachmentId", attachmentHandler.Delete)
		}

		admin := api.Group("/admin", requireAuth)
		{
			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:userId", userHandler.Update)
			admin.DELETE("/users/:userId", userHandler.Delete)
		}
	}

	log.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
