package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sunagitsune/kyoteibet/internal/pkg/models"
)

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// Per-day records expire on their own; the cumulative balance never
// does.
const dayRecordTTL = 14 * 24 * time.Hour

// RedisStore is the Redis-backed key-value store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (r *RedisStore) put(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record for %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) get(ctx context.Context, key string, v any) error {
	data, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("failed to unmarshal record at %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) PutMorning(ctx context.Context, rec *models.MorningRecord) error {
	return r.put(ctx, scheduleKey(rec.RacerNo, rec.Date), rec, dayRecordTTL)
}

func (r *RedisStore) GetMorning(ctx context.Context, racerNo, date string) (*models.MorningRecord, error) {
	var rec models.MorningRecord
	if err := r.get(ctx, scheduleKey(racerNo, date), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RedisStore) PutRaceResult(ctx context.Context, racerNo, date string, res models.RaceResult) error {
	return r.put(ctx, raceResultKey(racerNo, date, res.RaceNo), &res, dayRecordTTL)
}

func (r *RedisStore) GetRaceResult(ctx context.Context, racerNo, date string, raceNo int) (*models.RaceResult, error) {
	var res models.RaceResult
	if err := r.get(ctx, raceResultKey(racerNo, date, raceNo), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *RedisStore) PutSettlement(ctx context.Context, s *models.DailySettlement) error {
	return r.put(ctx, settlementKey(s.RacerNo, s.Date), s, dayRecordTTL)
}

func (r *RedisStore) GetCumulative(ctx context.Context, racerNo string) (*models.Cumulative, error) {
	var c models.Cumulative
	if err := r.get(ctx, cumulativeKey(racerNo), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *RedisStore) PutCumulative(ctx context.Context, c *models.Cumulative) error {
	return r.put(ctx, cumulativeKey(c.RacerNo), c, 0)
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
