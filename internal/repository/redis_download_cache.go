package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"creation-server/internal/models"
)

// Compile-time check
var _ DownloadCache = (*redisDownloadCache)(nil)

const (
	lastDownloadKeyPrefix = "last_download:"
	lastDownloadTTL       = 24 * time.Hour
)

type redisDownloadCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisDownloadCache(client *redis.Client, logger *zap.Logger) DownloadCache {
	return &redisDownloadCache{
		client: client,
		logger: logger.Named("RedisDownloadCache"),
	}
}

func (c *redisDownloadCache) SaveLast(ctx context.Context, owner string, download models.LastDownload) error {
	payload, err := json.Marshal(download)
	if err != nil {
		return fmt.Errorf("ошибка сериализации последней выгрузки: %w", err)
	}

	key := lastDownloadKeyPrefix + owner
	if err := c.client.Set(ctx, key, payload, lastDownloadTTL).Err(); err != nil {
		c.logger.Error("Failed to cache last download", zap.String("owner", owner), zap.Error(err))
		return fmt.Errorf("ошибка кеширования последней выгрузки: %w", err)
	}
	c.logger.Debug("Last download cached", zap.String("owner", owner), zap.String("filename", download.Filename))
	return nil
}

func (c *redisDownloadCache) GetLast(ctx context.Context, owner string) (*models.LastDownload, error) {
	key := lastDownloadKeyPrefix + owner
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		c.logger.Error("Failed to read last download", zap.String("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("ошибка чтения последней выгрузки: %w", err)
	}

	var download models.LastDownload
	if err := json.Unmarshal(payload, &download); err != nil {
		// Битый кеш равносилен его отсутствию
		c.logger.Warn("Corrupted last download record", zap.String("owner", owner), zap.Error(err))
		return nil, models.ErrNotFound
	}
	return &download, nil
}
