package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kvuthe/ITO/internal/models"
)

const (
	// VersionKey tracks the global leaderboard version for change detection.
	// Every ranking pass increments it; the WebSocket hub polls it so clients
	// refetch only when something actually changed.
	VersionKey = "leaderboard:version"

	// RecordQueueKey is the list backing the record-notification handoff.
	// The lifecycle manager pushes events; the notifier worker pops them.
	RecordQueueKey = "records:queue"
)

// RedisRepository handles all Redis operations
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
	}
}

// BumpVersion increments the global leaderboard version.
func (r *RedisRepository) BumpVersion(ctx context.Context) error {
	return r.client.Incr(ctx, VersionKey).Err()
}

// GetVersion returns the current global version number, 0 when unset.
func (r *RedisRepository) GetVersion(ctx context.Context) (int64, error) {
	version, err := r.client.Get(ctx, VersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// EnqueueRecordEvent pushes a record-change event onto the delivery queue.
// Queueing is fire-and-forget relative to the lifecycle transaction; a
// failure here is reported but never rolls ranking back.
func (r *RedisRepository) EnqueueRecordEvent(ctx context.Context, event *models.RecordChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal record event: %w", err)
	}
	return r.client.LPush(ctx, RecordQueueKey, payload).Err()
}

// DequeueRecordEvent blocks up to timeout for the next queued event.
// Returns nil when the timeout elapses with an empty queue.
func (r *RedisRepository) DequeueRecordEvent(ctx context.Context, timeout time.Duration) (*models.RecordChangeEvent, error) {
	result, err := r.client.BRPop(ctx, timeout, RecordQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length %d", len(result))
	}

	var event models.RecordChangeEvent
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record event: %w", err)
	}
	return &event, nil
}

// QueueLength returns the number of record events awaiting delivery.
func (r *RedisRepository) QueueLength(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, RecordQueueKey).Result()
}

// Ping checks if Redis is reachable
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
