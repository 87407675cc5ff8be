package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-api/pkg/cache"
	"blog-api/pkg/config"
	"blog-api/pkg/database"
	"blog-api/pkg/logger"
	"blog-api/pkg/middleware"
	"blog-api/pkg/queue"
	"blog-api/pkg/s3"
	"blog-api/pkg/storage"
	postHTTP "blog-api/services/post/internal/controller/http"
	"blog-api/services/post/internal/model"
	"blog-api/services/post/internal/repo/memory"
	"blog-api/services/post/internal/repo/persistent"
	postCache "blog-api/services/post/internal/repo/cache"
	"blog-api/services/post/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "blog-api/services/post/docs" // Swagger docs
)

type App struct {
	cfg    *config.Config
	log    *logger.Logger
	router *gin.Engine

	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
}

// New connects the configured backends and builds the router. Redis and RabbitMQ
// are optional: when they are unset or unreachable the service runs without them.
func New(cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	postRepo, err := a.initRepository()
	if err != nil {
		return nil, err
	}

	images, err := a.initImageStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	var pc usecase.PostCache
	if cfg.RedisHost != "" {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Warn("Failed to connect to redis: %v (continuing without cache)", err)
		} else {
			a.redisClient = redisClient
			pc = postCache.NewPostCache(cache.NewClient(redisClient), cfg.PostCacheTTL)
		}
	}

	var events usecase.EventPublisher
	if cfg.RabbitMQURL != "" {
		queueClient, err := queue.NewRabbitMQClient(cfg.RabbitMQURL, log)
		if err != nil {
			log.Warn("Failed to connect to RabbitMQ: %v (continuing without events)", err)
		} else {
			a.queueClient = queueClient
			events = queueClient
		}
	}

	postUseCase := usecase.NewPostUseCase(postRepo, images, pc, events, log)
	postHandler := postHTTP.NewPostHandler(postUseCase, log, cfg.PublicBaseURL, cfg.MaxUploadSizeMB<<20)

	a.router = a.newRouter(postHandler, images)
	return a, nil
}

func (a *App) initRepository() (persistent.PostRepository, error) {
	switch a.cfg.DBDriver {
	case "memory":
		a.log.Info("Using in-memory post repository")
		return memory.NewPostRepository(), nil
	case "postgres", "":
		db, err := database.NewPostgresDB(a.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db

		// Production schemas are managed by goose, see cmd/migrate
		if a.cfg.DBAutoMigrate {
			if err := db.AutoMigrate(&model.PostModel{}); err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		return persistent.NewPostRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", a.cfg.DBDriver)
	}
}

func (a *App) initImageStore() (usecase.ImageStore, error) {
	switch a.cfg.StorageDriver {
	case "s3":
		s3Client, err := s3.NewClient(a.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		return storage.NewS3Store(s3Client), nil
	case "disk", "":
		store, err := storage.NewDiskStore(a.cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", a.cfg.StorageDriver)
	}
}

func (a *App) newRouter(postHandler *postHTTP.PostHandler, images usecase.ImageStore) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = a.cfg.MaxUploadSizeMB << 20

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(a.log))
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if disk, ok := images.(*storage.DiskStore); ok {
		r.Static("/uploads", disk.Root())
	}

	api := r.Group("/")
	if n := a.cfg.RateLimitPerMinute; n > 0 {
		if a.redisClient != nil {
			api.Use(middleware.RateLimitMiddleware(a.redisClient, n, time.Minute))
		} else {
			api.Use(middleware.LocalRateLimitMiddleware(n, n))
		}
	}
	postHTTP.RegisterRoutes(api, postHandler)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: a.router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Post service starting on port %s", a.cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		a.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}
	a.log.Info("Shutting down post service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(ctx)
	a.Close()
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.log.Info("Post service exited")
	return nil
}

// Close releases the backend connections opened by New.
func (a *App) Close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.log.Error("Error closing database: %v", err)
			}
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}
}
