package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// CachedAvailability is a read-through redis cache in front of an
// AvailabilityStore. Redis failures fall through to the store.
type CachedAvailability struct {
	next    domain.AvailabilityStore
	rdb     *redis.Client
	ttl     time.Duration
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewCachedAvailability(
	next domain.AvailabilityStore,
	rdb *redis.Client,
	ttl time.Duration,
	log *zap.Logger,
	m *metrics.Collector,
) *CachedAvailability {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedAvailability{next: next, rdb: rdb, ttl: ttl, log: log, metrics: m}
}

func availabilityKey(doctorID uint) string {
	return fmt.Sprintf("availability:doctor:%d", doctorID)
}

func (c *CachedAvailability) Availability(
	ctx context.Context,
	doctorID uint,
) ([]models.DoctorAvailability, error) {
	if c.rdb == nil {
		return c.next.Availability(ctx, doctorID)
	}

	key := availabilityKey(doctorID)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var entries []models.DoctorAvailability
		if jerr := json.Unmarshal(raw, &entries); jerr == nil {
			c.metrics.CacheLookup(true)
			return entries, nil
		}
		c.log.Warn("discarding corrupt availability cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.CacheLookup(false)

	entries, err := c.next.Availability(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(cachedEntries(entries)); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.log.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return entries, nil
}

func (c *CachedAvailability) ReplaceAvailability(
	ctx context.Context,
	doctorID uint,
	entries []models.DoctorAvailability,
) error {
	if err := c.next.ReplaceAvailability(ctx, doctorID, entries); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, availabilityKey(doctorID)).Err(); err != nil {
		c.log.Error("availability cache invalidation failed", zap.Uint("doctor_id", doctorID), zap.Error(err))
	}
	return nil
}

// DoctorAvailability hides ids from JSON, so the cached form is the wire
// form: day and times only.
func cachedEntries(entries []models.DoctorAvailability) []models.DoctorAvailability {
	if entries == nil {
		return []models.DoctorAvailability{}
	}
	return entries
}

var _ domain.AvailabilityStore = (*CachedAvailability)(nil)
