package directory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IbrahimToubeh/MediConnect-sub000/pkg/logging"
)

const snapshotKey = "directory:active_doctors"

// Cache decorates a Reader with a short-lived Redis snapshot so that a
// burst of chat turns does not re-query the database on every turn.
// Any cache failure degrades to the inner reader.
type Cache struct {
	inner  Reader
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewCache(inner Reader, client *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *Cache) ListActiveDoctors(ctx context.Context) ([]Doctor, error) {
	if c.client != nil {
		raw, err := c.client.Get(ctx, snapshotKey).Bytes()
		if err == nil {
			var doctors []Doctor
			if jsonErr := json.Unmarshal(raw, &doctors); jsonErr == nil {
				return doctors, nil
			}
			// Corrupt snapshot: drop it and fall through to the source.
			c.client.Del(ctx, snapshotKey)
		} else if err != redis.Nil {
			c.logger.Warn("directory cache read failed", "error", err)
		}
	}

	doctors, err := c.inner.ListActiveDoctors(ctx)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if raw, err := json.Marshal(doctors); err == nil {
			if err := c.client.Set(ctx, snapshotKey, raw, c.ttl).Err(); err != nil {
				c.logger.Warn("directory cache write failed", "error", err)
			}
		}
	}
	return doctors, nil
}
