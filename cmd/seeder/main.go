package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kvuthe/ITO/internal/config"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/repository"
	"github.com/Kvuthe/ITO/internal/service"
)

const (
	totalPlayers   = 25
	runsPerPlayer  = 4
	seederPassword = "changeme123"
)

var chapters = map[string][]string{
	"the shire":  {"green dragon", "bucklebury ferry"},
	"moria":      {"balin's tomb", "the bridge"},
	"helms deep": {"the wall", "the keep"},
}

var categories = []string{"any%", "inbounds"}

func main() {
	log.Println("🌱 Starting seeder for ITO Leaderboard...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize PostgreSQL
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

	ctx := context.Background()

	log.Printf("🌱 Creating %d verified players...", totalPlayers)
	users, err := seedUsers(ctx, postgresRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	// Submissions go through the lifecycle service so every scope ends up
	// ranked and every player scored exactly as production writes would.
	submissionService := service.NewSubmissionService(postgresRepo, redisRepo)

	log.Printf("📦 Creating %d submissions...", totalPlayers*runsPerPlayer)
	created, err := seedSubmissions(ctx, submissionService, users)
	if err != nil {
		log.Fatalf("Failed to seed submissions: %v", err)
	}

	log.Println("✅ Seeding completed successfully!")
	log.Printf("   - Players: %d", len(users))
	log.Printf("   - Submissions: %d", created)

	// Show the resulting top 10
	log.Println("\n📊 Top 10 Players:")
	top, err := postgresRepo.UsersByScoreDesc(ctx)
	if err != nil {
		log.Fatalf("Failed to read leaderboard: %v", err)
	}
	for i, user := range top {
		if i >= 10 {
			break
		}
		log.Printf("   %d. %s - Score: %d", i+1, user.Username, user.Score)
	}

	postgresRepo.Close()
	redisRepo.Close()

	log.Println("\n🎉 Seeder finished!")
}

// seedUsers creates verified players with a shared development password.
func seedUsers(ctx context.Context, repo *repository.PostgresRepository) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seederPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	flags := []string{"us", "gb", "de", "fr", "se", "au", "br", "jp"}

	users := make([]models.User, 0, totalPlayers)
	for i := 0; i < totalPlayers; i++ {
		user := models.User{
			Username:     fmt.Sprintf("runner_%d", i+1),
			Email:        fmt.Sprintf("runner_%d@example.com", i+1),
			Password:     string(hash),
			CreationDate: time.Now().AddDate(0, 0, -rand.Intn(365)),
			Role:         models.RoleVerified,
			Flag:         flags[rand.Intn(len(flags))],
			LbPref:       models.PrefAnyPercent | models.PrefInBounds,
		}
		if err := repo.CreateUser(ctx, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// seedSubmissions plays random runs through the lifecycle service.
func seedSubmissions(ctx context.Context, svc *service.SubmissionService, users []models.User) (int, error) {
	startTime := time.Now()
	created := 0

	for i := range users {
		for j := 0; j < runsPerPlayer; j++ {
			chapter, subChapter := randomScope()
			minutes := models.FlexString(fmt.Sprintf("%d", rand.Intn(5)))
			seconds := models.FlexString(fmt.Sprintf("%d", rand.Intn(60)))
			millis := models.FlexString(fmt.Sprintf("%d", rand.Intn(1000)))

			req := &models.CreateSubmissionRequest{
				Chapter:      chapter,
				SubChapter:   subChapter,
				Category:     categories[rand.Intn(len(categories))],
				Minutes:      &minutes,
				Seconds:      &seconds,
				Milliseconds: &millis,
				VideoURL:     fmt.Sprintf("https://example.com/runs/%d-%d", i, j),
			}

			if _, _, err := svc.Create(ctx, &users[i], req); err != nil {
				return created, err
			}
			created++
		}
	}

	duration := time.Since(startTime)
	log.Printf("   ✓ Created %d submissions in %v", created, duration)
	return created, nil
}

func randomScope() (chapter, subChapter string) {
	names := make([]string, 0, len(chapters))
	for name := range chapters {
		names = append(names, name)
	}
	chapter = names[rand.Intn(len(names))]
	subChapter = chapters[chapter][rand.Intn(len(chapters[chapter]))]
	return chapter, subChapter
}

// initPostgres initializes PostgreSQL connection
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

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// initRedis initializes Redis connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     10,
		MinIdleConns: 2,
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
