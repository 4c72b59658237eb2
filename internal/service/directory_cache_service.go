package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/pkg/geo"
	"go-hospital-directory/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	RedisTopKeyPrefix     = "directory:top:"
	RedisTopGenerationKey = "directory:top-generation"

	topCacheName       = "top_hospitals"
	specialtyCacheName = "top_specialties"
	invalidateBatch    = 100
)

// DirectoryCache fronts the ranked directory reads.
// Top hospitals are shared through redis; top specialties stay in process.
//
// Top-hospital entries are keyed by a generation that invalidation bumps.
// GetTopHospitals reports the generation it read so a caller that misses,
// queries and then stores cannot resurrect rows read before an invalidation.
type DirectoryCache interface {
	GetTopHospitals(ctx context.Context, origin geo.Coordinate) ([]entity.RankedProvider, int64, bool)
	SetTopHospitals(ctx context.Context, origin geo.Coordinate, generation int64, rows []entity.RankedProvider)
	InvalidateTopHospitals(ctx context.Context) error

	GetTopSpecialties(severity entity.Severity) ([]entity.SpecialtyRanking, bool)
	SetTopSpecialties(severity entity.Severity, rows []entity.SpecialtyRanking)
	InvalidateSpecialties()
}

type directoryCache struct {
	redisClient *redis.Client
	local       *cache.Cache
	topTTL      time.Duration
	log         *logrus.Logger
	metrics     *metrics.Metrics
}

func NewDirectoryCache(redisClient *redis.Client, topTTL, specialtyTTL time.Duration, log *logrus.Logger, m *metrics.Metrics) DirectoryCache {
	return &directoryCache{
		redisClient: redisClient,
		local:       cache.New(specialtyTTL, 2*specialtyTTL),
		topTTL:      topTTL,
		log:         log,
		metrics:     m,
	}
}

// TopHospitalsKey buckets requester coordinates to three decimals (about 110m)
func TopHospitalsKey(generation int64, origin geo.Coordinate) string {
	rounded := entity.TopCacheOrigin(origin)
	return fmt.Sprintf("%s%d:%s:%s", RedisTopKeyPrefix, generation,
		rounded.Latitude.StringFixed(3), rounded.Longitude.StringFixed(3))
}

// generation is -1 when redis cannot be read; such a miss is never stored
func (c *directoryCache) generation(ctx context.Context) int64 {
	gen, err := c.redisClient.Get(ctx, RedisTopGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		c.log.Warnf("Failed to read top hospitals cache generation: %+v", err)
		return -1
	}
	return gen
}

func (c *directoryCache) GetTopHospitals(ctx context.Context, origin geo.Coordinate) ([]entity.RankedProvider, int64, bool) {
	gen := c.generation(ctx)
	if gen < 0 {
		c.metrics.CacheLookup(topCacheName, false)
		return nil, gen, false
	}

	raw, err := c.redisClient.Get(ctx, TopHospitalsKey(gen, origin)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read top hospitals cache: %+v", err)
		}
		c.metrics.CacheLookup(topCacheName, false)
		return nil, gen, false
	}

	var rows []entity.RankedProvider
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.log.Warnf("Failed to decode top hospitals cache: %+v", err)
		c.metrics.CacheLookup(topCacheName, false)
		return nil, gen, false
	}

	c.metrics.CacheLookup(topCacheName, true)
	return rows, gen, true
}

func (c *directoryCache) SetTopHospitals(ctx context.Context, origin geo.Coordinate, generation int64, rows []entity.RankedProvider) {
	if c.topTTL <= 0 || generation < 0 {
		return
	}
	if rows == nil {
		rows = []entity.RankedProvider{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		c.log.Warnf("Failed to encode top hospitals cache: %+v", err)
		return
	}
	// stored only if no invalidation happened since the generation was read
	if err := setIfGenerationScript.Run(ctx, c.redisClient,
		[]string{RedisTopGenerationKey, TopHospitalsKey(generation, origin)},
		generation, raw, c.topTTL.Milliseconds()).Err(); err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warnf("Failed to write top hospitals cache: %+v", err)
	}
}

// KEYS[1] generation key, KEYS[2] entry key, ARGV[1] expected generation,
// ARGV[2] payload, ARGV[3] ttl milliseconds
var setIfGenerationScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current ~= tonumber(ARGV[1]) then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// InvalidateTopHospitals bumps the generation, then removes the old buckets
func (c *directoryCache) InvalidateTopHospitals(ctx context.Context) error {
	if err := c.redisClient.Incr(ctx, RedisTopGenerationKey).Err(); err != nil {
		c.log.Warnf("Failed to bump top hospitals cache generation: %+v", err)
		return err
	}

	iter := c.redisClient.Scan(ctx, 0, RedisTopKeyPrefix+"*", invalidateBatch).Iterator()

	keys := make([]string, 0, invalidateBatch)
	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		if err := c.redisClient.Unlink(ctx, keys...).Err(); err != nil {
			return err
		}
		keys = keys[:0]
		return nil
	}

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == invalidateBatch {
			if err := flush(); err != nil {
				c.log.Warnf("Failed to invalidate top hospitals cache: %+v", err)
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warnf("Failed to scan top hospitals cache: %+v", err)
		return err
	}
	if err := flush(); err != nil {
		c.log.Warnf("Failed to invalidate top hospitals cache: %+v", err)
		return err
	}
	return nil
}

func (c *directoryCache) GetTopSpecialties(severity entity.Severity) ([]entity.SpecialtyRanking, bool) {
	value, found := c.local.Get(string(severity))
	if !found {
		c.metrics.CacheLookup(specialtyCacheName, false)
		return nil, false
	}
	rows, ok := value.([]entity.SpecialtyRanking)
	c.metrics.CacheLookup(specialtyCacheName, ok)
	return rows, ok
}

func (c *directoryCache) SetTopSpecialties(severity entity.Severity, rows []entity.SpecialtyRanking) {
	c.local.SetDefault(string(severity), rows)
}

func (c *directoryCache) InvalidateSpecialties() {
	c.local.Flush()
}
