package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kvuthe/ITO/internal/config"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/repository"
)

// newRotateFixture wires the rotator against an in-memory database. The redis
// client points at a closed port so version bumps fail fast and get logged.
func newRotateFixture(t *testing.T) (*HighlightRotator, *repository.PostgresRepository) {
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

	rotator, err := NewHighlightRotator(postgresRepo, redisRepo, config.HighlightConfig{
		Hour:     12,
		Minute:   59,
		Timezone: "America/New_York",
	})
	require.NoError(t, err)

	return rotator, postgresRepo
}

func seedRankedSubmission(t *testing.T, repo *repository.PostgresRepository, rank int, highlighted bool) *models.Submission {
	t.Helper()

	submission := &models.Submission{
		Date:         time.Now(),
		GameTitle:    "itt",
		TimeComplete: 100000 + rank*1000,
		Category:     "any%",
		Chapter:      "moria",
		SubChapter:   "the bridge",
		Rank:         rank,
		Points:       1,
		Highlighted:  highlighted,
	}
	require.NoError(t, repo.CreateSubmission(context.Background(), submission))
	return submission
}

func TestRotateHighlightsAtMostThreeFirstPlaces(t *testing.T) {
	rotator, repo := newRotateFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedRankedSubmission(t, repo, 1, false)
	}
	seedRankedSubmission(t, repo, 2, false)

	require.NoError(t, rotator.Rotate(ctx))

	highlighted, err := repo.HighlightedSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, highlighted, 3)
	for _, s := range highlighted {
		assert.Equal(t, 1, s.Rank)
	}
}

func TestRotateTwiceNeverAccumulates(t *testing.T) {
	rotator, repo := newRotateFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedRankedSubmission(t, repo, 1, false)
	}

	require.NoError(t, rotator.Rotate(ctx))
	require.NoError(t, rotator.Rotate(ctx))

	highlighted, err := repo.HighlightedSubmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, highlighted, 3)
}

func TestRotateClearsStaleHighlights(t *testing.T) {
	rotator, repo := newRotateFixture(t)
	ctx := context.Background()

	// A previously highlighted run that has since lost first place must not
	// survive the rotation.
	stale := seedRankedSubmission(t, repo, 2, true)
	fresh := seedRankedSubmission(t, repo, 1, false)

	require.NoError(t, rotator.Rotate(ctx))

	reloaded, err := repo.GetSubmission(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Highlighted)

	current, err := repo.GetSubmission(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, current.Highlighted)
}

func TestRotateWithFewerThanThreeCandidates(t *testing.T) {
	rotator, repo := newRotateFixture(t)
	ctx := context.Background()

	seedRankedSubmission(t, repo, 1, false)
	seedRankedSubmission(t, repo, 1, false)

	require.NoError(t, rotator.Rotate(ctx))

	highlighted, err := repo.HighlightedSubmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, highlighted, 2)
}
