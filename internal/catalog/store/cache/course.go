// Package cache provides a Redis read-through cache in front of the course store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog/internal/catalog/metrics"
	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/tx"
)

const (
	keyPrefix = "catalog:course:"

	// invalidated marks a key whose course just changed. Populates use SET NX,
	// so a reader that loaded the old row before the change cannot put it back
	// while the marker lives.
	invalidated         = "invalidated"
	defaultInvalidation = 10 * time.Second
)

// CourseStore is the backing store the cache wraps.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, courseID id.CourseID) (*models.Course, error)
	Delete(ctx context.Context, courseID id.CourseID) error
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Course, int64, error)
}

// CachedCourseStore serves FindByID from Redis when possible. Cache failures are
// logged and counted, and the lookup falls through to the backing store.
//
// Lookups inside a SQL transaction always read the backing store so the
// transaction sees its own writes.
type CachedCourseStore struct {
	inner        CourseStore
	client       redis.Cmdable
	ttl          time.Duration
	invalidation time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*CachedCourseStore)

func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedCourseStore) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *CachedCourseStore) {
		c.metrics = m
	}
}

// WithInvalidationHold sets how long an invalidated key refuses repopulation.
// It should exceed the slowest backing-store read.
func WithInvalidationHold(d time.Duration) Option {
	return func(c *CachedCourseStore) {
		if d > 0 {
			c.invalidation = d
		}
	}
}

func NewCourseStore(inner CourseStore, client redis.Cmdable, ttl time.Duration, opts ...Option) *CachedCourseStore {
	c := &CachedCourseStore{
		inner:        inner,
		client:       client,
		ttl:          ttl,
		invalidation: defaultInvalidation,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedCourseStore) Create(ctx context.Context, course *models.Course) error {
	return c.inner.Create(ctx, course)
}

func (c *CachedCourseStore) Update(ctx context.Context, course *models.Course) error {
	if err := c.inner.Update(ctx, course); err != nil {
		return err
	}
	c.Invalidate(ctx, course.ID)
	return nil
}

func (c *CachedCourseStore) Delete(ctx context.Context, courseID id.CourseID) error {
	if err := c.inner.Delete(ctx, courseID); err != nil {
		return err
	}
	c.Invalidate(ctx, courseID)
	return nil
}

func (c *CachedCourseStore) List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Course, int64, error) {
	return c.inner.List(ctx, pred, page)
}

func (c *CachedCourseStore) FindByID(ctx context.Context, courseID id.CourseID) (*models.Course, error) {
	if _, inTx := tx.From(ctx); inTx {
		return c.inner.FindByID(ctx, courseID)
	}

	key := keyPrefix + courseID.String()
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil && string(raw) == invalidated:
		c.metrics.IncCacheMiss()
		return c.inner.FindByID(ctx, courseID)
	case err == nil:
		var course models.Course
		if jsonErr := json.Unmarshal(raw, &course); jsonErr == nil {
			c.metrics.IncCacheHit()
			return &course, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cached course", "course_id", courseID.String())
		_ = c.client.Del(ctx, key).Err()
	case errors.Is(err, redis.Nil):
		c.metrics.IncCacheMiss()
	default:
		c.metrics.IncCacheError()
		c.logger.WarnContext(ctx, "course cache read failed", "course_id", courseID.String(), "error", err)
		return c.inner.FindByID(ctx, courseID)
	}

	course, err := c.inner.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, course)
	return course, nil
}

// Invalidate replaces the cached entry with a short-lived marker that blocks
// repopulation. Failures are logged only; the entry expires after the TTL
// regardless.
func (c *CachedCourseStore) Invalidate(ctx context.Context, courseID id.CourseID) {
	if err := c.client.Set(ctx, keyPrefix+courseID.String(), invalidated, c.invalidation).Err(); err != nil {
		c.metrics.IncCacheError()
		c.logger.WarnContext(ctx, "course cache invalidation failed", "course_id", courseID.String(), "error", err)
	}
}

func (c *CachedCourseStore) store(ctx context.Context, key string, course *models.Course) {
	raw, err := json.Marshal(course)
	if err != nil {
		return
	}
	if err := c.client.SetNX(ctx, key, raw, c.ttl).Err(); err != nil {
		c.metrics.IncCacheError()
		c.logger.WarnContext(ctx, "course cache write failed", "key", key, "error", err)
	}
}
