package geo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "petition:geo:"

// Resolver is anything that maps an IP to a location.
type Resolver interface {
	Lookup(ctx context.Context, ip string) (Location, error)
}

// CachedResolver memoizes successful lookups in Redis.
type CachedResolver struct {
	next   Resolver
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedResolver wraps next; a nil client disables caching.
func NewCachedResolver(next Resolver, client *redis.Client, ttl time.Duration, logger *zap.Logger) Resolver {
	if client == nil || ttl <= 0 {
		return next
	}
	return &CachedResolver{next: next, redis: client, ttl: ttl, logger: logger}
}

func (r *CachedResolver) Lookup(ctx context.Context, ip string) (Location, error) {
	key := cacheKeyPrefix + ip

	raw, err := r.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var loc Location
		if jsonErr := json.Unmarshal(raw, &loc); jsonErr == nil {
			return loc, nil
		}
	case !errors.Is(err, redis.Nil):
		r.logger.Debug("geo cache read failed", zap.Error(err))
	}

	loc, err := r.next.Lookup(ctx, ip)
	if err != nil {
		return Location{}, err
	}
	if b, err := json.Marshal(loc); err == nil {
		if err := r.redis.Set(ctx, key, b, r.ttl).Err(); err != nil {
			r.logger.Debug("geo cache write failed", zap.Error(err))
		}
	}
	return loc, nil
}
