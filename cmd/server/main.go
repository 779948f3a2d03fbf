package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kvuthe/ITO/internal/api/handlers"
	"github.com/Kvuthe/ITO/internal/config"
	"github.com/Kvuthe/ITO/internal/jobs"
	"github.com/Kvuthe/ITO/internal/repository"
	"github.com/Kvuthe/ITO/internal/service"
	"github.com/Kvuthe/ITO/internal/websocket"
	"github.com/Kvuthe/ITO/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize PostgreSQL with connection pooling
	db, err := initPostgres(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("✓ Connected to PostgreSQL")

	// Initialize Redis
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("✓ Connected to Redis")

	// Initialize repositories
	postgresRepo := repository.NewPostgresRepository(db)
	redisRepo := repository.NewRedisRepository(redisClient)

	// Run migrations
	if err := postgresRepo.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✓ Database migrations completed")

	// Initialize services
	authService := service.NewAuthService(postgresRepo, cfg.Auth)
	leagueService := service.NewLeagueService(postgresRepo, redisRepo, cfg.League.Season)
	accountService := service.NewAccountService(postgresRepo, leagueService)
	submissionService := service.NewSubmissionService(postgresRepo, redisRepo)
	leaderboardService := service.NewLeaderboardService(postgresRepo, redisRepo)

	// Initialize record-notification workers
	notifierPool := worker.NewNotifierPool(redisRepo, cfg.Notifier)
	notifierPool.Start()

	// Initialize WebSocket hub
	hub := websocket.NewHub(redisRepo)
	hub.Start()

	// Initialize daily highlight rotation
	rotator, err := jobs.NewHighlightRotator(postgresRepo, redisRepo, cfg.Highlight)
	if err != nil {
		log.Fatalf("Failed to initialize highlight rotator: %v", err)
	}
	rotator.Start()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, hub)
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	modHandler := handlers.NewModHandler(accountService, leaderboardService)

	requireAuth := handlers.RequireAuth(authService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "ITO Leaderboard",
		DisableStartupMessage: false,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api")

	// Tokens
	api.Post("/tokens", authHandler.CreateTokens)
	api.Put("/tokens/refresh", authHandler.RefreshTokens)
	api.Delete("/tokens", authHandler.DeleteTokens)

	// Accounts
	api.Post("/users/create", accountHandler.Create)
	api.Get("/users/profile/:username", accountHandler.Profile)
	api.Get("/me", requireAuth, accountHandler.Me)
	api.Post("/me/edit", requireAuth, accountHandler.Edit)

	// Submissions
	api.Post("/submission/create", requireAuth, submissionHandler.Create)
	api.Post("/submission/update", requireAuth, submissionHandler.Edit)
	api.Post("/submission/report", requireAuth, submissionHandler.Report)
	api.Get("/submission/reported", requireAuth, modHandler.Reported)
	api.Post("/submission/mod/create", requireAuth, submissionHandler.ModCreate)
	api.Post("/submission/mod/restore", requireAuth, submissionHandler.Restore)
	api.Post("/submission/mod/remove", requireAuth, submissionHandler.Remove)

	// Leaderboards
	api.Get("/leaderboard/recent", leaderboardHandler.Recent)
	api.Get("/leaderboard/highlighted", leaderboardHandler.Highlighted)
	api.Get("/leaderboard/total", leaderboardHandler.TotalBoard)
	api.Get("/leaderboard/version", leaderboardHandler.Version)
	api.Get("/leaderboard/users/:category/:time_frame", leaderboardHandler.UserBoard)
	api.Get("/leaderboard/:category/:chapter/:sub_chapter", leaderboardHandler.ChapterBoard)

	// League
	api.Post("/league/submission/create", requireAuth, leagueHandler.Create)
	api.Get("/league/season", leagueHandler.SeasonTotals)
	api.Get("/league/:week/:level", leagueHandler.WeekBoard)

	// Moderation
	api.Get("/mod/queue", requireAuth, modHandler.Queue)
	api.Post("/mod/verify", requireAuth, modHandler.Verify)
	api.Post("/mod/deny", requireAuth, modHandler.Deny)

	// Health
	api.Get("/health", leaderboardHandler.HealthCheck)

	// WebSocket route with upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", fiberws.New(func(c *fiberws.Conn) {
		hub.Handler(c)
	}))

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("\n🛑 Shutting down server...")

		rotator.Stop()
		hub.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}

		log.Println("🔄 Stopping record-notification workers...")
		notifierPool.Shutdown()

		if err := postgresRepo.Close(); err != nil {
			log.Printf("Error closing PostgreSQL: %v", err)
		}
		if err := redisRepo.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}

		log.Println("✓ Server shutdown complete")
	}()

	// Start server
	port := cfg.Server.Port
	log.Printf("🚀 Server starting on port %d...", port)
	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initPostgres initializes PostgreSQL connection with connection pooling
func initPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// initRedis initializes Redis connection with connection pooling
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     20,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
