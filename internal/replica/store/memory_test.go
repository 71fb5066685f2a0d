package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"catalog/internal/replica/models"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func newReplica(userID id.UserID, version int64, name string) *models.UserReplica {
	return &models.UserReplica{
		UserID:   userID,
		Email:    name + "@example.com",
		FullName: name,
		Status:   models.UserStatusActive,
		Type:     models.UserTypeStudent,
		Version:  version,
	}
}

func (s *InMemorySuite) TestUpsertAndFind() {
	userID := id.UserID(uuid.New())
	applied, err := s.store.Upsert(s.ctx, newReplica(userID, 1, "ana"))
	s.Require().NoError(err)
	s.True(applied)

	found, err := s.store.FindByID(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal("ana", found.FullName)

	_, err = s.store.FindByID(s.ctx, id.UserID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestStaleUpsertIgnored() {
	userID := id.UserID(uuid.New())
	_, _ = s.store.Upsert(s.ctx, newReplica(userID, 5, "new"))

	applied, err := s.store.Upsert(s.ctx, newReplica(userID, 3, "old"))
	s.Require().NoError(err)
	s.False(applied)

	found, _ := s.store.FindByID(s.ctx, userID)
	s.Equal("new", found.FullName)
}

func (s *InMemorySuite) TestRedeliveryIsIdempotent() {
	userID := id.UserID(uuid.New())
	event := newReplica(userID, 2, "ana")
	for range 3 {
		_, err := s.store.Upsert(s.ctx, event)
		s.Require().NoError(err)
	}
	found, _ := s.store.FindByID(s.ctx, userID)
	s.Equal(int64(2), found.Version)
	s.Equal(event.Email, found.Email)
}

func (s *InMemorySuite) TestDeleteLeavesTombstone() {
	userID := id.UserID(uuid.New())
	_, _ = s.store.Upsert(s.ctx, newReplica(userID, 1, "ana"))

	applied, err := s.store.Delete(s.ctx, userID, 2)
	s.Require().NoError(err)
	s.True(applied)

	_, err = s.store.FindByID(s.ctx, userID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	applied, err = s.store.Upsert(s.ctx, newReplica(userID, 1, "ana"))
	s.Require().NoError(err)
	s.False(applied, "stale create must not resurrect a deleted user")

	applied, err = s.store.Upsert(s.ctx, newReplica(userID, 3, "ana again"))
	s.Require().NoError(err)
	s.True(applied)
	found, err := s.store.FindByID(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal("ana again", found.FullName)
}

func (s *InMemorySuite) TestDeleteOfUnknownUser() {
	userID := id.UserID(uuid.New())
	applied, err := s.store.Delete(s.ctx, userID, 4)
	s.Require().NoError(err)
	s.True(applied)

	applied, _ = s.store.Upsert(s.ctx, newReplica(userID, 2, "late"))
	s.False(applied)
}

func (s *InMemorySuite) TestUnversionedEventsLastWriteWins() {
	userID := id.UserID(uuid.New())
	_, _ = s.store.Upsert(s.ctx, newReplica(userID, 4, "versioned"))

	applied, err := s.store.Upsert(s.ctx, newReplica(userID, 0, "unversioned"))
	s.Require().NoError(err)
	s.True(applied)

	found, _ := s.store.FindByID(s.ctx, userID)
	s.Equal("unversioned", found.FullName)
	s.Equal(int64(4), found.Version, "stored version never goes backwards")
}

func (s *InMemorySuite) TestConcurrentUpsertsKeepNewest() {
	userID := id.UserID(uuid.New())
	var wg sync.WaitGroup
	for v := int64(1); v <= 50; v++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.store.Upsert(s.ctx, newReplica(userID, v, "v"))
		}()
	}
	wg.Wait()

	found, err := s.store.FindByID(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(int64(50), found.Version)
}
