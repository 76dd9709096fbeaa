package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure redisGameProgressRepository implements GameProgressRepository
var _ interfaces.GameProgressRepository = (*redisGameProgressRepository)(nil)

const gameProgressKeyPrefix = "game_progress:"

type redisGameProgressRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisGameProgressRepository creates a Redis-backed GameProgressRepository.
// A zero ttl keeps records forever.
func NewRedisGameProgressRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) interfaces.GameProgressRepository {
	return &redisGameProgressRepository{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisGameProgressRepo"),
	}
}

func gameProgressKey(playerID uuid.UUID) string {
	return gameProgressKeyPrefix + playerID.String()
}

func (r *redisGameProgressRepository) Get(ctx context.Context, playerID uuid.UUID) (*models.GameProgress, error) {
	key := gameProgressKey(playerID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get game progress from redis", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	progress := models.NewGameProgress()
	if err := json.Unmarshal(data, progress); err != nil {
		r.logger.Error("Failed to unmarshal game progress", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unmarshal game progress %s: %w", key, err)
	}
	return progress, nil
}

func (r *redisGameProgressRepository) Save(ctx context.Context, playerID uuid.UUID, progress *models.GameProgress) error {
	key := gameProgressKey(playerID)
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal game progress: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save game progress to redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.logger.Debug("Saved game progress", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}
