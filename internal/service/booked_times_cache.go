package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// BookedTimesCache caches the booked times for one doctor-day. It is
// advisory: every failure is treated as a miss and the caller falls back
// to the database, which stays authoritative.
type BookedTimesCache interface {
	Get(ctx context.Context, doctorID uuid.UUID, date string) ([]string, bool)
	Put(ctx context.Context, doctorID uuid.UUID, date string, times []string)
	Invalidate(ctx context.Context, doctorID uuid.UUID, date string)
}

type RedisBookedTimesCache struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisBookedTimesCache(client *redis.Client, log *logrus.Logger) *RedisBookedTimesCache {
	return &RedisBookedTimesCache{client: client, log: log}
}

func (c *RedisBookedTimesCache) key(doctorID uuid.UUID, date string) string {
	return fmt.Sprintf("booked_times:%s:%s", doctorID, date)
}

func (c *RedisBookedTimesCache) Get(ctx context.Context, doctorID uuid.UUID, date string) ([]string, bool) {
	data, err := c.client.Get(ctx, c.key(doctorID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnf("Failed to read booked times cache for doctor %s on %s: %+v", doctorID, date, err)
		}
		return nil, false
	}

	var times []string
	if err := json.Unmarshal(data, &times); err != nil {
		c.log.Warnf("Failed to decode booked times cache for doctor %s on %s: %+v", doctorID, date, err)
		return nil, false
	}
	return times, true
}

func (c *RedisBookedTimesCache) Put(ctx context.Context, doctorID uuid.UUID, date string, times []string) {
	data, err := json.Marshal(times)
	if err != nil {
		c.log.Warnf("Failed to encode booked times for doctor %s on %s: %+v", doctorID, date, err)
		return
	}

	if err := c.client.Set(ctx, c.key(doctorID, date), data, c.ttlFor(date)).Err(); err != nil {
		c.log.Warnf("Failed to write booked times cache for doctor %s on %s: %+v", doctorID, date, err)
	}
}

func (c *RedisBookedTimesCache) Invalidate(ctx context.Context, doctorID uuid.UUID, date string) {
	if err := c.client.Del(ctx, c.key(doctorID, date)).Err(); err != nil {
		c.log.Warnf("Failed to invalidate booked times cache for doctor %s on %s: %+v", doctorID, date, err)
	}
}

// ttlFor keeps an entry until the end of the day after its date, then lets
// it expire on its own. Unparseable dates get a short TTL so junk keys
// never linger.
func (c *RedisBookedTimesCache) ttlFor(date string) time.Duration {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Hour
	}

	expiry := day.AddDate(0, 0, 2)
	ttl := time.Until(expiry)
	if ttl < time.Hour {
		ttl = time.Hour
	}
	return ttl
}
