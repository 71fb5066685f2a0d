package store

import (
	"context"
	"sync"

	"catalog/internal/replica/models"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/requestcontext"
)

// InMemory keeps replicas (and delete tombstones) in a map.
type InMemory struct {
	mu    sync.RWMutex
	users map[id.UserID]models.UserReplica
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[id.UserID]models.UserReplica)}
}

// FindByID returns a live replica; tombstoned users are reported as not found.
func (s *InMemory) FindByID(_ context.Context, userID id.UserID) (*models.UserReplica, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok || u.Deleted {
		return nil, sentinel.ErrNotFound
	}
	return &u, nil
}

// Upsert overwrites the replica unless the stored row carries a newer version.
func (s *InMemory) Upsert(ctx context.Context, replica *models.UserReplica) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *replica
	if existing, ok := s.users[replica.UserID]; ok {
		if !existing.Supersedes(replica.Version) {
			return false, nil
		}
		next.Version = max(existing.Version, replica.Version)
	}
	next.Deleted = false
	next.UpdatedAt = requestcontext.Now(ctx).UTC()
	s.users[replica.UserID] = next
	return true, nil
}

// Delete leaves a tombstone so an older CREATE/UPDATE cannot bring the user back.
func (s *InMemory) Delete(ctx context.Context, userID id.UserID, version int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tombstone := models.UserReplica{UserID: userID, Version: version}
	if existing, ok := s.users[userID]; ok {
		if !existing.Supersedes(version) {
			return false, nil
		}
		tombstone = existing
		tombstone.Version = max(existing.Version, version)
	}
	tombstone.Deleted = true
	tombstone.UpdatedAt = requestcontext.Now(ctx).UTC()
	s.users[userID] = tombstone
	return true, nil
}
