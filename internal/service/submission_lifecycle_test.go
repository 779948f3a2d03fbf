package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/repository"
)

// newLifecycleFixture wires the lifecycle service against an in-memory
// database. The redis client points at a closed port: version bumps and event
// enqueues fail fast and are logged, which is all these tests need from them.
func newLifecycleFixture(t *testing.T) (*SubmissionService, *repository.PostgresRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	postgresRepo := repository.NewPostgresRepository(db)
	require.NoError(t, postgresRepo.AutoMigrate())

	redisRepo := repository.NewRedisRepository(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 10 * time.Millisecond,
		MaxRetries:  -1,
	}))

	return NewSubmissionService(postgresRepo, redisRepo), postgresRepo
}

func createVerifiedUser(t *testing.T, repo *repository.PostgresRepository, name string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     name,
		Email:        fmt.Sprintf("%s@example.com", name),
		CreationDate: time.Now(),
		Role:         models.RoleVerified,
		LbPref:       models.PrefAnyPercent | models.PrefInBounds,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func lifecycleReq(minutes, seconds, millis string) *models.CreateSubmissionRequest {
	return &models.CreateSubmissionRequest{
		Chapter:      "moria",
		SubChapter:   "the bridge",
		Category:     "any%",
		Minutes:      flex(minutes),
		Seconds:      flex(seconds),
		Milliseconds: flex(millis),
		VideoURL:     "https://example.com/run",
	}
}

func TestCreateReturnsRankedSubmission(t *testing.T) {
	svc, repo := newLifecycleFixture(t)
	ctx := context.Background()

	alice := createVerifiedUser(t, repo, "alice")
	bob := createVerifiedUser(t, repo, "bob")

	created, _, err := svc.Create(ctx, alice, lifecycleReq("2", "17", "180"))
	require.NoError(t, err)
	assert.Equal(t, 1, created.Rank)
	assert.Equal(t, 1, created.Points)

	// A faster run takes first; the returned row already carries its rank.
	faster, _, err := svc.Create(ctx, bob, lifecycleReq("2", "10", "000"))
	require.NoError(t, err)
	assert.Equal(t, 1, faster.Rank)
	assert.Equal(t, 2, faster.Points)

	displaced, err := repo.GetSubmission(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, displaced.Rank)
	assert.Equal(t, 1, displaced.Points)
}

func TestCreateVoidsPriorSubmissionInScope(t *testing.T) {
	svc, repo := newLifecycleFixture(t)
	ctx := context.Background()

	alice := createVerifiedUser(t, repo, "alice")

	first, _, err := svc.Create(ctx, alice, lifecycleReq("2", "17", "180"))
	require.NoError(t, err)
	second, _, err := svc.Create(ctx, alice, lifecycleReq("2", "15", "000"))
	require.NoError(t, err)

	voided, err := repo.GetSubmission(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, voided.Voided)

	// Exactly one live row remains in the scope, and it is the newer one.
	live, err := repo.LoadScope(ctx, second.Scope())
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, second.ID, live[0].ID)
	assert.Equal(t, 1, live[0].Rank)

	scored, err := repo.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, scored.Score)
}

func TestCreateLeavesOtherScopesAlone(t *testing.T) {
	svc, repo := newLifecycleFixture(t)
	ctx := context.Background()

	alice := createVerifiedUser(t, repo, "alice")

	bridge, _, err := svc.Create(ctx, alice, lifecycleReq("2", "17", "180"))
	require.NoError(t, err)

	tombReq := lifecycleReq("1", "40", "000")
	tombReq.SubChapter = "balin's tomb"
	tomb, _, err := svc.Create(ctx, alice, tombReq)
	require.NoError(t, err)

	kept, err := repo.GetSubmission(ctx, bridge.ID)
	require.NoError(t, err)
	assert.False(t, kept.Voided)

	tombLive, err := repo.LoadScope(ctx, tomb.Scope())
	require.NoError(t, err)
	assert.Len(t, tombLive, 1)
}
