package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SraaaamX/realestate-api/internal/broker"
	"github.com/SraaaamX/realestate-api/internal/config"
	"github.com/SraaaamX/realestate-api/internal/database"
	"github.com/SraaaamX/realestate-api/internal/handler"
	"github.com/SraaaamX/realestate-api/internal/middleware"
	"github.com/SraaaamX/realestate-api/internal/repository"
	"github.com/SraaaamX/realestate-api/internal/router"
	"github.com/SraaaamX/realestate-api/internal/service"
	"github.com/SraaaamX/realestate-api/internal/storage"
	"github.com/SraaaamX/realestate-api/internal/utils"
	"github.com/SraaaamX/realestate-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	events, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer events.Close()

	// Rate limiting needs Redis; without it the auth routes are unlimited
	var limiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
			KeyPrefix:   "ratelimit:auth",
		})
	} else {
		logger.Log.Warn("REDIS_URL not set, auth rate limiting disabled")
	}

	files := storage.NewLocalStore(cfg.UploadDir, "/uploads")
	avatars := storage.AvatarProfile(cfg.AvatarMaxBytes)
	images := storage.PropertyImageProfile(cfg.PropertyImageMaxBytes)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, tokens, files)
	propertyService := service.NewPropertyService(propertyRepo, files, events)
	inquiryService := service.NewInquiryService(inquiryRepo, events)

	engine := router.New(router.Options{
		Tokens:             tokens,
		Auth:               handler.NewAuthHandler(userService, files, avatars),
		Users:              handler.NewUserHandler(userService, files, avatars),
		Properties:         handler.NewPropertyHandler(propertyService, files, images),
		Inquiries:          handler.NewInquiryHandler(inquiryService),
		RateLimiter:        limiter,
		UploadDir:          cfg.UploadDir,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IsProduction:       cfg.Environment == "production",
		HealthCheck:        sqlDB.PingContext,
	})

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Info("Server starting", zap.String("addr", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Log.Info("Server stopped")
	return nil
}

// newPublisher builds the domain event publisher selected by EVENT_BROKER.
func newPublisher(cfg *config.Config) (broker.EventPublisher, error) {
	switch cfg.EventBroker {
	case "redis":
		publisher, err := broker.NewRedisPublisher(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("init redis publisher: %w", err)
		}
		logger.Log.Info("Publishing domain events to Redis")
		return publisher, nil
	case "kafka":
		logger.Log.Info("Publishing domain events to Kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic_prefix", cfg.KafkaTopicPrefix),
		)
		return broker.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix), nil
	default:
		return broker.NopPublisher{}, nil
	}
}
