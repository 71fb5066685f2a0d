//go:build integration

package cache_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"catalog/internal/catalog/metrics"
	"catalog/internal/catalog/models"
	"catalog/internal/catalog/store/cache"
	"catalog/internal/catalog/store/memory"
	replicastore "catalog/internal/replica/store"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/testutil/containers"
)

type countingStore struct {
	cache.CourseStore
	reads atomic.Int32
	// hold, when set, parks the next read after it has loaded its row.
	hold chan chan struct{}
}

func (c *countingStore) FindByID(ctx context.Context, courseID id.CourseID) (*models.Course, error) {
	course, err := c.CourseStore.FindByID(ctx, courseID)
	c.reads.Add(1)
	if c.hold != nil {
		select {
		case release := <-c.hold:
			<-release
		default:
		}
	}
	return course, err
}

type RedisCourseCacheSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	inner   *countingStore
	metrics *metrics.Metrics
	store   *cache.CachedCourseStore
	ctx     context.Context
}

func TestRedisCourseCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCourseCacheSuite))
}

func (s *RedisCourseCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisCourseCacheSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.redis.FlushAll(s.ctx))
	s.inner = &countingStore{CourseStore: memory.New(replicastore.NewInMemory()).Courses()}
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.store = cache.NewCourseStore(s.inner, s.redis.Client, time.Minute, cache.WithMetrics(s.metrics))
}

func (s *RedisCourseCacheSuite) TestSecondReadIsServedFromRedis() {
	course := newCourse("Go")
	s.Require().NoError(s.store.Create(s.ctx, course))

	first, err := s.store.FindByID(s.ctx, course.ID)
	s.Require().NoError(err)
	second, err := s.store.FindByID(s.ctx, course.ID)
	s.Require().NoError(err)

	s.Equal(first.Name, second.Name)
	s.Equal(course.InstructorID, second.InstructorID)
	s.Equal(int32(1), s.inner.reads.Load())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CourseCacheMiss))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CourseCacheHits))
}

func (s *RedisCourseCacheSuite) TestUpdateInvalidates() {
	course := newCourse("Go")
	s.Require().NoError(s.store.Create(s.ctx, course))
	_, err := s.store.FindByID(s.ctx, course.ID)
	s.Require().NoError(err)

	course.ApplyUpdate(models.CourseFields{
		Name:         "Go Advanced",
		Status:       course.Status,
		Level:        models.CourseLevelAdvanced,
		InstructorID: course.InstructorID,
	}, time.Now())
	s.Require().NoError(s.store.Update(s.ctx, course))

	found, err := s.store.FindByID(s.ctx, course.ID)
	s.Require().NoError(err)
	s.Equal("Go Advanced", found.Name)
	s.Equal(models.CourseLevelAdvanced, found.Level)
}

func (s *RedisCourseCacheSuite) TestDeleteInvalidates() {
	course := newCourse("Go")
	s.Require().NoError(s.store.Create(s.ctx, course))
	_, err := s.store.FindByID(s.ctx, course.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, course.ID))

	_, err = s.store.FindByID(s.ctx, course.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCourseCacheSuite) TestSlowReaderCannotRecacheDeletedCourse() {
	course := newCourse("Go")
	s.Require().NoError(s.store.Create(s.ctx, course))

	release := make(chan struct{})
	s.inner.hold = make(chan chan struct{}, 1)
	s.inner.hold <- release

	done := make(chan error, 1)
	go func() {
		_, err := s.store.FindByID(s.ctx, course.ID)
		done <- err
	}()
	s.Eventually(func() bool { return s.inner.reads.Load() == 1 }, time.Second, 5*time.Millisecond)

	s.Require().NoError(s.store.Delete(s.ctx, course.ID))
	close(release)
	s.Require().NoError(<-done, "the slow reader saw the row before the delete")

	_, err := s.store.FindByID(s.ctx, course.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCourseCacheSuite) TestEntriesExpire() {
	short := cache.NewCourseStore(s.inner, s.redis.Client, 50*time.Millisecond)
	course := newCourse("Go")
	s.Require().NoError(short.Create(s.ctx, course))
	_, err := short.FindByID(s.ctx, course.ID)
	s.Require().NoError(err)

	time.Sleep(120 * time.Millisecond)

	_, err = short.FindByID(s.ctx, course.ID)
	s.Require().NoError(err)
	s.Equal(int32(2), s.inner.reads.Load())
}
