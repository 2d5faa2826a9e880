package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/expensio/expensio-backend/internal/cache"
	"github.com/expensio/expensio-backend/internal/config"
	"github.com/expensio/expensio-backend/internal/directory"
	"github.com/expensio/expensio-backend/internal/handler"
	"github.com/expensio/expensio-backend/internal/middleware"
	"github.com/expensio/expensio-backend/internal/notification"
	"github.com/expensio/expensio-backend/internal/realtime"
	"github.com/expensio/expensio-backend/internal/repository/postgres"
	"github.com/expensio/expensio-backend/internal/repository/storage"
	"github.com/expensio/expensio-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Apply schema migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Cache backend. Without Redis the API works off the database alone.
	var appCache cache.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure Redis cache")
		}
		defer redisCache.Close()
		appCache = redisCache
	} else {
		log.Info().Msg("No REDIS_URL configured, caching disabled")
	}

	// User directory for notification recipients
	var users directory.UserLookup = directory.Disabled{}
	if cfg.UserDirectoryURL != "" {
		users = directory.NewClient(cfg.UserDirectoryURL)
	} else {
		log.Info().Msg("No USER_DIRECTORY_URL configured, notifications disabled")
	}

	// Notification queue. Without SQS notifications are logged only.
	var publisher notification.Publisher = notification.NewLogPublisher()
	if cfg.SQS.QueueURL != "" {
		sqsPublisher, err := notification.NewSQSPublisher(context.Background(), cfg.SQS)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure SQS publisher")
		}
		publisher = sqsPublisher
		log.Info().Msg("Notification queue configured")
	}
	notifier := notification.NewNotifier(users, publisher)

	// Realtime event hub
	hub := realtime.NewHub()

	// Initialize repositories
	companyRepo := postgres.NewCompanyRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)

	// Receipt storage. Without a bucket receipt endpoints answer 501.
	var receiptStorage storage.ReceiptRepository
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure receipt storage")
		}
		receiptStorage = s3Storage
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage configured")
	} else {
		log.Info().Msg("No S3_BUCKET configured, receipt storage disabled")
	}

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo)
	categoryService.SetEventPublisher(hub)
	expenseService := service.NewExpenseService(expenseRepo, categoryRepo, appCache, notifier)
	expenseService.SetEventPublisher(hub)
	receiptService := service.NewReceiptService(expenseRepo, receiptStorage)

	// Initialize middleware
	identity := middleware.NewIdentityMiddleware(companyRepo)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	defer limiter.Stop()

	// Initialize handlers
	categoryHandler := handler.NewCategoryHandler(categoryService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Company-Id", "X-User-Id", "X-User-Role"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
			"cache":  appCache.Healthcheck(c.Request().Context()),
		})
	})

	// Register API routes
	handler.RegisterRoutes(e, identity, limiter, categoryHandler, expenseHandler, receiptHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Let in-flight notifications drain before the process exits
	notifier.Wait()

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
