package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrQuotaFull is returned when a provider has no capacity left for the day
var ErrQuotaFull = errors.New("appointment quota is full")

// reserveSlotScript seeds the day's remaining capacity if the key is missing,
// then takes one slot. Returns the remaining count or -1 when full.
//
// KEYS[1] quota key, ARGV[1] seed, ARGV[2] ttl seconds
var reserveSlotScript = redis.NewScript(`
	redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2], 'NX')
	local remaining = redis.call('DECR', KEYS[1])
	if remaining < 0 then
		redis.call('INCR', KEYS[1])
		return -1
	end
	return remaining
`)

// releaseSlotScript gives a slot back only while the counter is live.
// A missing key is reseeded from the database on the next reservation.
var releaseSlotScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then
		return redis.call('INCR', KEYS[1])
	end
	return -1
`)

const (
	RedisQuotaKeyPrefix = "appointment:quota:"

	minQuotaTTL = time.Minute
)

// AppointmentQuota guards per-provider daily capacity
type AppointmentQuota interface {
	// Reserve takes one slot. seed is the remaining capacity computed from the
	// database and is only used when the day has no counter yet.
	Reserve(ctx context.Context, providerID uuid.UUID, day time.Time, seed int64) (int64, error)
	Release(ctx context.Context, providerID uuid.UUID, day time.Time) error
}

type appointmentQuotaService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	now         func() time.Time
}

func NewAppointmentQuotaService(redisClient *redis.Client, log *logrus.Logger) AppointmentQuota {
	return &appointmentQuotaService{
		redisClient: redisClient,
		log:         log,
		now:         time.Now,
	}
}

func (s *appointmentQuotaService) Reserve(ctx context.Context, providerID uuid.UUID, day time.Time, seed int64) (int64, error) {
	if seed < 0 {
		seed = 0
	}
	key := QuotaKey(providerID, day)
	ttl := quotaTTL(day, s.now())

	remaining, err := reserveSlotScript.Run(ctx, s.redisClient, []string{key}, seed, int64(ttl.Seconds())).Int64()
	if err != nil {
		s.log.Warnf("Failed to reserve slot for provider %s on %s: %+v", providerID, day.Format(time.DateOnly), err)
		return 0, fmt.Errorf("reserve slot for provider %s: %w", providerID, err)
	}
	if remaining < 0 {
		return 0, ErrQuotaFull
	}

	s.log.Debugf("Reserved slot for provider %s on %s: remaining=%d", providerID, day.Format(time.DateOnly), remaining)
	return remaining, nil
}

func (s *appointmentQuotaService) Release(ctx context.Context, providerID uuid.UUID, day time.Time) error {
	key := QuotaKey(providerID, day)
	if err := releaseSlotScript.Run(ctx, s.redisClient, []string{key}).Err(); err != nil {
		s.log.Warnf("Failed to release slot for provider %s on %s: %+v", providerID, day.Format(time.DateOnly), err)
		return fmt.Errorf("release slot for provider %s: %w", providerID, err)
	}
	return nil
}

// QuotaKey is the redis key holding a provider's remaining slots for one day
func QuotaKey(providerID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", RedisQuotaKeyPrefix, providerID, day.UTC().Format(time.DateOnly))
}

// quotaTTL keeps the counter until the end of the scheduled day
func quotaTTL(day, now time.Time) time.Duration {
	d := day.UTC()
	expireAt := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	ttl := expireAt.Sub(now)
	if ttl < minQuotaTTL {
		return minQuotaTTL
	}
	return ttl
}
