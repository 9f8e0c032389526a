package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/athan"
)

// a selection only matters for its own day; two days covers clock skew around midnight
const selectionTTL = 48 * time.Hour

func InitRedis(redisAddress string, redisUsername string, redisPassword string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// Cache keeps the next-prayer selection of each day so a restarted server
// still knows what it showed last.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func selectionKey(city string, date time.Time) string {
	return fmt.Sprintf("athan:%s:selection:%s", city, date.Format("2006-01-02"))
}

// LoadSelection returns false when nothing was saved for that date.
func (c *Cache) LoadSelection(ctx context.Context, city string, date time.Time) (athan.Selection, bool, error) {
	key := selectionKey(city, date)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return athan.Selection{}, false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to read selection from redis")
		return athan.Selection{}, false, err
	}

	var sel athan.Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return athan.Selection{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return sel, true, nil
}

func (c *Cache) SaveSelection(ctx context.Context, city string, date time.Time, sel athan.Selection) error {
	key := selectionKey(city, date)
	payload, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, payload, selectionTTL).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to add selection to redis")
		return err
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
